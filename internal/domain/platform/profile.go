// Where: cli/internal/domain/platform/profile.go
// What: Per-platform Slim Bootloader build profiles.
// Why: Replace inline platform branching with data.
package platform

import (
	"fmt"
	"strings"
)

// Component is one payload entry handed to the SBL build driver.
type Component struct {
	File        string
	Signature   string
	Compression string
}

func (c Component) String() string {
	return c.File + ":" + c.Signature + ":" + c.Compression
}

// Components is the fixed OS loader + UEFI payload pair.
var Components = []Component{
	{File: "OsLoader.efi", Signature: "LLDR", Compression: "Lz4"},
	{File: "UefiPld.fd", Signature: "UEFI", Compression: "Lzma"},
}

// ComponentList renders components in the driver's `-p` syntax.
func ComponentList(components []Component) string {
	parts := make([]string, 0, len(components))
	for _, c := range components {
		parts = append(parts, c.String())
	}
	return strings.Join(parts, ";")
}

// StitchSpec describes the stitching step for platforms that need one.
type StitchSpec struct {
	Script     string
	BaseImage  string
	Components string
	Output     string
	PlatformID string
}

// Profile is everything the build sequence needs to know about a platform.
type Profile struct {
	Platform Platform
	Codename string
	// Stitch is nil when SBL already produces a flashable image.
	Stitch *StitchSpec
	// Image is the SBL-relative image copied to the final output path.
	Image string
}

// NeedsStitch reports whether the stitching tool runs for this platform.
func (p Profile) NeedsStitch() bool {
	return p.Stitch != nil
}

var profiles = map[Platform]Profile{
	MinnowBoard3: {
		Platform: MinnowBoard3,
		Codename: "apl",
		Stitch: &StitchSpec{
			Script:     "Platform/ApollolakeBoardPkg/Script/StitchLoader.py",
			BaseImage:  "base.bin",
			Components: "Outputs/apl/Stitch_Components.zip",
			Output:     "APL/Output/APL_BX_SPI_IFWI.bin",
			PlatformID: "AA00020C",
		},
		Image: "APL/Output/APL_BX_SPI_IFWI.bin",
	},
	Qemu: {
		Platform: Qemu,
		Codename: "qemu",
		Image:    "Outputs/qemu/SlimBootloader.bin",
	},
}

// Resolve returns the build profile for a platform.
func Resolve(p Platform) (Profile, error) {
	profile, ok := profiles[p]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", errUnsupportedPlatform, p)
	}
	return profile, nil
}
