package trial

import (
	"os"
	"runtime"
)

// HostInfo records where a session ran, for comparing stored sessions
// across machines.
type HostInfo struct {
	Hostname  string `json:"hostname"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	CPUs      int    `json:"cpus"`
	GoVersion string `json:"go_version"`
}

func CollectHostInfo() HostInfo {
	hostname, _ := os.Hostname()
	return HostInfo{
		Hostname:  hostname,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		CPUs:      runtime.NumCPU(),
		GoVersion: runtime.Version(),
	}
}
