/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

// Package libinfo exposes the version of the teeto module the running binary was built with.
package libinfo

import (
	"runtime/debug"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// ModuleName is the import path of this module.
const ModuleName = "github.com/gamebuddyapp/teeto"

// PrometheusLibVersionLabel is a const label attached to all collectors of the module.
const PrometheusLibVersionLabel = "teeto_version"

const unknownVersion = "v0.0.0"

// AddPrometheusLibVersionLabel returns a copy of labels with the module version label added.
func AddPrometheusLibVersionLabel(labels prometheus.Labels) prometheus.Labels {
	res := prometheus.Labels{PrometheusLibVersionLabel: GetLibVersion()}
	for k, v := range labels {
		res[k] = v
	}
	return res
}

// GetLibVersion returns the version of the module the binary was built with ("v0.0.0" if unknown).
var GetLibVersion = sync.OnceValue(func() string {
	info, _ := debug.ReadBuildInfo()
	if v := moduleVersion(info, ModuleName); v != "" && v != "(devel)" {
		return v
	}
	return unknownVersion
})

// moduleVersion finds modPath (or its "/vN" major version path) among the main module and dependencies.
func moduleVersion(info *debug.BuildInfo, modPath string) string {
	if info == nil {
		return ""
	}
	for _, mod := range append([]*debug.Module{&info.Main}, info.Deps...) {
		if isModuleMajorOf(mod.Path, modPath) {
			return mod.Version
		}
	}
	return ""
}

func isModuleMajorOf(path, modPath string) bool {
	if path == modPath {
		return true
	}
	suffix, ok := strings.CutPrefix(path, modPath+"/v")
	if !ok || suffix == "" {
		return false
	}
	for _, r := range suffix {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
