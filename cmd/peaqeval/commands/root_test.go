package commands

import (
	"strings"
	"testing"
)

func TestUsageExamplesUseKnownFlags(t *testing.T) {
	for _, line := range strings.Split(rootCmd.Long, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 || fields[0] != "peaqeval" {
			continue
		}

		sub, _, err := rootCmd.Find(fields[1:2])
		if err != nil || sub == rootCmd {
			t.Fatalf("%q: unknown command %q", line, fields[1])
		}

		for _, f := range fields[2:] {
			if !strings.HasPrefix(f, "--") {
				continue
			}
			name := strings.TrimPrefix(f, "--")
			if sub.Flags().Lookup(name) == nil && sub.InheritedFlags().Lookup(name) == nil {
				t.Errorf("%q: %s has no flag --%s", line, sub.Name(), name)
			}
		}
	}
}
