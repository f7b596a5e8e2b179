package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

var (
	SystemCPUUsage = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "system_cpu_usage_percent",
			Help: "Current CPU usage percentage",
		},
		[]string{"service"},
	)

	SystemMemoryUsage = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "system_memory_usage_percent",
			Help: "Current memory usage percentage",
		},
		[]string{"service"},
	)
)

// UpdateSystemMetrics samples host CPU and memory usage
func UpdateSystemMetrics(serviceName string) {
	if percentages, err := cpu.Percent(0, false); err == nil && len(percentages) > 0 {
		SystemCPUUsage.WithLabelValues(serviceName).Set(percentages[0])
	} else if err != nil {
		log.Debug().Err(err).Msg("Failed to sample CPU usage")
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		SystemMemoryUsage.WithLabelValues(serviceName).Set(vm.UsedPercent)
	} else {
		log.Debug().Err(err).Msg("Failed to sample memory usage")
	}
}

// StartSystemMetricsCollection starts a goroutine to collect system and
// runtime metrics
func StartSystemMetricsCollection(serviceName string) {
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()

		for range ticker.C {
			UpdateSystemMetrics(serviceName)
			UpdateRuntimeMetrics(serviceName)
		}
	}()
}
