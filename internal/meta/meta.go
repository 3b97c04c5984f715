// Where: cli/internal/meta/meta.go
// What: CLI-local metadata constants.
// Why: Keep naming and fixed layout defaults in one place.
package meta

const (
	// Project Identity
	AppName   = "sblpayload"
	EnvPrefix = "SBLPAYLOAD"

	// Configuration
	ConfigFile = "sblpayload.yaml"
	EnvFile    = ".env"

	// Default Layout, relative to the Slim Bootloader root
	DefaultToolsDir      = "../../Tools"
	DefaultPayloadSource = "../../../../edk2/Build/UefiPayloadPkg{{ .Arch }}/{{ .Target }}_{{ .Toolchain }}/FV/UEFIPAYLOAD.fd"
	DefaultPayloadDest   = "PayloadPkg/PayloadBins/UefiPld.fd"
	DefaultOutputPath    = "../../firmware.bin"
	DefaultPython        = "python"
)

// DefaultCleanDirs are removed by the clean flag.
var DefaultCleanDirs = []string{"Build", "Conf"}
