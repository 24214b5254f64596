package image

import (
	"github.com/samber/lo"
)

// Architectures offered for selection, in menu order.
var Architectures = []string{"amd64", "arm64", "arm/v7"}

// Returns true if arch is one of the selectable architectures.
func Supported(arch string) bool {
	return lo.Contains(Architectures, arch)
}

// Returns the full OS/architecture pair handed to pull commands, e.g.
// "linux/arm/v7" for "arm/v7". Only Linux images are packaged.
func Platform(arch string) string {
	return "linux/" + arch
}
