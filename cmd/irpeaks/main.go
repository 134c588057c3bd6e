// irpeaks lists the clustered arrival peaks of a response dump or a paths JSON file
package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/jdginn/go-auralizer/room"
)

const (
	// Slots quieter than this relative to the peak are ignored in response dumps
	thresholdDb = -40
	sampleRate  = 16000

	clusterTimeMs = 0.05
	clusterGainDb = 4
)

// readPeaks loads arrivals relative to the earliest one. Files ending in .json are
// paths written by SavePathsJSON, anything else is a response dump.
func readPeaks(filename string, sampleRate int) ([]room.Peak, error) {
	if strings.HasSuffix(filename, ".json") {
		annotations, err := room.LoadPathsJSON(filename)
		if err != nil {
			return nil, err
		}
		peaks := make([]room.Peak, 0, len(annotations.AcousticPaths))
		for _, p := range annotations.AcousticPaths {
			peaks = append(peaks, room.Peak{TimeMs: p.DelayMS, GainDb: p.Gain})
		}
		return relative(peaks), nil
	}

	ir, _, err := room.LoadResponse(filename)
	if err != nil {
		return nil, err
	}
	return relative(room.ArrivalPeaks(ir, sampleRate, thresholdDb)), nil
}

func relative(peaks []room.Peak) []room.Peak {
	sort.Slice(peaks, func(i, j int) bool {
		return peaks[i].TimeMs < peaks[j].TimeMs
	})
	if len(peaks) == 0 {
		return peaks
	}
	first := peaks[0].TimeMs
	for i := range peaks {
		peaks[i].TimeMs -= first
	}
	return peaks
}

func main() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: irpeaks <rs.txt[.gz] | paths.json> <output.txt>")
		os.Exit(1)
	}

	inFile := os.Args[1]
	outFile := os.Args[2]

	peaks, err := readPeaks(inFile, sampleRate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot read %s: %v\n", inFile, err)
		os.Exit(2)
	}

	out, err := os.Create(outFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot create output file: %v\n", err)
		os.Exit(4)
	}
	defer out.Close()

	for _, p := range room.ClusterPeaks(peaks, clusterTimeMs, clusterGainDb) {
		fmt.Fprintf(out, "%.6fms, %.2fdB\n", p.TimeMs, p.GainDb)
	}
}
