package cli_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/fatih/color"
	"github.com/m-mizutani/gt"

	"github.com/junglesafari/safaridesk/pkg/cli"
	"github.com/junglesafari/safaridesk/pkg/domain/model"
	"github.com/junglesafari/safaridesk/pkg/domain/types"
)

func TestPrintAttributes(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	err := cli.PrintAttributes(&buf, model.Attributes{
		Category:     types.CategoryCleanliness,
		Location:     types.DefaultLocation,
		Severity:     types.SeverityHigh,
		CustomerName: "Alex",
	})
	gt.NoError(t, err).Required()

	out := buf.String()
	gt.String(t, out).Contains("Category:   cleanliness")
	gt.String(t, out).Contains("Severity:   high")
	gt.String(t, out).Contains("Name:       Alex")
	gt.String(t, out).Contains("Contact:    (none)")
}

func TestGetIndexConfig(t *testing.T) {
	t.Run("default collection", func(t *testing.T) {
		cfg := cli.GetIndexConfig("")
		gt.Array(t, cfg.Collections).Length(1).Required()
		gt.Value(t, cfg.Collections[0].Name).Equal("complaints")
		gt.Array(t, cfg.Collections[0].Indexes).Length(2)
	})

	t.Run("prefixed collection", func(t *testing.T) {
		cfg := cli.GetIndexConfig("test")
		gt.Value(t, cfg.Collections[0].Name).Equal("test_complaints")
	})
}

func TestRunClassify(t *testing.T) {
	err := cli.Run(context.Background(), []string{"safaridesk", "--log-output", "stderr", "classify", "the restroom was dirty"}, "test")
	gt.NoError(t, err)
}

func TestRunInvalidLogLevel(t *testing.T) {
	err := cli.Run(context.Background(), []string{"safaridesk", "--log-level", "loud", "classify", "hello"}, "test")
	gt.Value(t, err).NotNil()
}
