package benchmark

import (
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// SystemInfo describes the machine a benchmark ran on, so results from
// different hosts can be told apart.
type SystemInfo struct {
	OS            string  `json:"os"`
	Platform      string  `json:"platform"`
	KernelVersion string  `json:"kernel_version"`
	CPUModel      string  `json:"cpu_model"`
	CPUCores      int     `json:"cpu_cores"`
	TotalMemoryGB float64 `json:"total_memory_gb"`
	GoVersion     string  `json:"go_version"`
}

// CollectSystemInfo gathers host details. Probes that fail leave their
// fields empty rather than failing the benchmark.
func CollectSystemInfo() SystemInfo {
	info := SystemInfo{
		OS:        runtime.GOOS,
		CPUCores:  runtime.NumCPU(),
		GoVersion: runtime.Version(),
	}

	if hostInfo, err := host.Info(); err == nil {
		info.Platform = hostInfo.Platform + " " + hostInfo.PlatformVersion
		info.KernelVersion = hostInfo.KernelVersion
	}
	if cpuInfo, err := cpu.Info(); err == nil && len(cpuInfo) > 0 {
		info.CPUModel = cpuInfo[0].ModelName
	}
	if memInfo, err := mem.VirtualMemory(); err == nil {
		info.TotalMemoryGB = float64(memInfo.Total) / (1024 * 1024 * 1024)
	}

	return info
}
