package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kingpin"
	"github.com/fatih/color"
	"github.com/pkg/errors"

	"github.com/sourcegraph/lsif-flow/internal/verify"
)

const verifyCommandName = "verify"

type verifyFlags struct {
	dump string
}

func registerVerifyCommand(app *kingpin.Application) *verifyFlags {
	f := &verifyFlags{}

	cmd := app.Command(verifyCommandName, "Check id order and edge references of an LSIF dump.")
	cmd.Arg("dump", "The dump file.").Default("dump.lsif").ExistingFileVar(&f.dump)

	return f
}

func runVerify(f *verifyFlags, w io.Writer) error {
	in, err := os.Open(f.dump)
	if err != nil {
		return errors.Wrap(err, "open dump")
	}
	defer in.Close()

	report, err := verify.Check(in)
	if err != nil {
		return err
	}

	printReport(w, report)

	if !report.OK() {
		return errors.Errorf("%s has %d violations", f.dump, len(report.Violations))
	}
	return nil
}

func printReport(w io.Writer, report *verify.Report) {
	warn := color.New(color.FgYellow).SprintFunc()
	fail := color.New(color.FgRed).SprintFunc()

	for _, v := range report.Violations {
		prefix := fail("Error")
		if v.Kind != verify.ViolationReference {
			prefix = warn("Warn")
		}
		fmt.Fprintf(w, "%s: %s\n", prefix, v)
	}

	fmt.Fprintf(w, "Items: %d (%d vertices, %d edges)\n", report.Items, report.Vertices, report.Edges)
	fmt.Fprintf(w, "Total violation: %d\n", len(report.Violations))
}
