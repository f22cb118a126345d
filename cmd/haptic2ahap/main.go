// Command haptic2ahap converts a .haptic clip file to one or two Apple
// .ahap pattern files, for internal use when authoring content against
// CoreHaptics on iOS.
//
// Usage:
//
//	haptic2ahap clip.haptic
//	haptic2ahap -no-split clip.haptic
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Lofelt/NiceVibrations/datamodel"
	"github.com/Lofelt/NiceVibrations/pattern"
)

func main() {
	noSplit := flag.Bool("no-split", false, "write one unified .ahap instead of splitting continuous and transient events")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] INPUT.haptic\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(flag.Arg(0), !*noSplit); err != nil {
		fmt.Fprintln(os.Stderr, "haptic2ahap:", err)
		os.Exit(1)
	}
}

func run(inputPath string, split bool) error {
	base := strings.TrimSuffix(inputPath, ".haptic")
	if base == inputPath {
		return fmt.Errorf("input %q should be a .haptic file", inputPath)
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("reading %q: %w", inputPath, err)
	}

	result, err := datamodel.Load(data)
	if err != nil {
		return fmt.Errorf("loading %q: %w", inputPath, err)
	}

	params := pattern.DefaultExportParams()
	if split {
		_, continuousPattern, transientsPattern := pattern.ExportAll(result.Clip, params)
		if err := writePattern(base+"_continuous.ahap", continuousPattern); err != nil {
			return err
		}
		if transientsPattern != nil {
			if err := writePattern(base+"_transients.ahap", transientsPattern); err != nil {
				return err
			}
		}
		return nil
	}

	unified := pattern.Export(result.Clip, params)
	return writePattern(base+".ahap", unified)
}

func writePattern(path string, p *pattern.Pattern) error {
	data, err := p.Marshal()
	if err != nil {
		return fmt.Errorf("encoding %q: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %q: %w", path, err)
	}
	return nil
}
