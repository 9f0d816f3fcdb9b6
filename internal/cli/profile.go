package cli

import (
	"bmpsteg/internal/logging"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"time"
)

// MemorySampleRate How often to dump the memory to a file in HZ. Values of less than 1 are recommended to avoid
// having to sort through too many dump files
var MemorySampleRate = 0.5

type profiler struct {
	logger *logging.Logger

	cpuProfileFile *os.File

	memDumpPath      string
	heapDumps        [][]byte
	stopMemProfiling chan struct{}
	memStopped       chan struct{}
}

func (p *profiler) startCPU(profilePath string) error {
	f, err := os.Create(profilePath)
	if err != nil {
		return fmt.Errorf("creating CPU profile: %w", err)
	}

	runtime.SetCPUProfileRate(500)
	if err = pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return fmt.Errorf("starting CPU profiler: %w", err)
	}
	p.cpuProfileFile = f
	return nil
}

func (p *profiler) startMemory(dumpPath string) {
	if MemorySampleRate <= 0 {
		return
	}

	p.memDumpPath = dumpPath
	p.stopMemProfiling = make(chan struct{})
	p.memStopped = make(chan struct{})

	go func() {
		defer close(p.memStopped)
		ticker := time.NewTicker(time.Duration((1/MemorySampleRate)*1000) * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-p.stopMemProfiling:
				return
			case <-ticker.C:
				p.dumpMemoryProfile()
			}
		}
	}()
}

func (p *profiler) dumpMemoryProfile() {
	w := bytes.NewBuffer(nil)
	if err := pprof.WriteHeapProfile(w); err != nil {
		p.logger.WithError(err).Warn("Error writing heap profile")
		return
	}
	p.heapDumps = append(p.heapDumps, w.Bytes())
}

func (p *profiler) stop() {
	if p.cpuProfileFile != nil {
		pprof.StopCPUProfile()
		p.cpuProfileFile.Close()
		p.cpuProfileFile = nil
	}

	if p.stopMemProfiling == nil {
		return
	}
	close(p.stopMemProfiling)
	<-p.memStopped
	p.stopMemProfiling = nil
	p.dumpMemoryProfile()

	if err := os.MkdirAll(p.memDumpPath, 0755); err != nil {
		p.logger.WithError(err).Error("Error creating memory profile directory")
		return
	}
	for dIdx, dump := range p.heapDumps {
		err := os.WriteFile(filepath.Join(p.memDumpPath, fmt.Sprintf("mem-%d.mprof", dIdx)), dump, 0644)
		if err != nil {
			p.logger.WithError(err).Error("Error writing memory profile to disk")
		}
	}
}
