package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/junglesafari/safaridesk/pkg/cli/config"
	"github.com/junglesafari/safaridesk/pkg/domain/model"
	"github.com/junglesafari/safaridesk/pkg/domain/types"
)

func cmdClassify() *cli.Command {
	var chatCfg config.Chat

	return &cli.Command{
		Name:      "classify",
		Aliases:   []string{"c"},
		Usage:     "Extract complaint attributes from a message without starting the server",
		ArgsUsage: "[message...]",
		Flags:     chatCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			x, err := chatCfg.Extractor()
			if err != nil {
				return err
			}

			message := strings.Join(c.Args().Slice(), " ")
			if message == "" {
				raw, err := io.ReadAll(os.Stdin)
				if err != nil {
					return goerr.Wrap(err, "failed to read message from stdin")
				}
				message = string(raw)
			}
			if strings.TrimSpace(message) == "" {
				return goerr.New("message is required")
			}

			w := c.Root().Writer
			if w == nil {
				w = os.Stdout
			}
			return printAttributes(w, x.Extract(message))
		},
	}
}

var (
	labelColor   = color.New(color.FgCyan, color.Bold)
	defaultColor = color.New(color.FgHiBlack)
	highColor    = color.New(color.FgRed, color.Bold)
)

func printAttributes(w io.Writer, attrs model.Attributes) error {
	rows := []struct {
		label     string
		value     string
		isDefault bool
	}{
		{"Category", attrs.Category.String(), attrs.Category.IsDefault()},
		{"Location", attrs.Location.String(), attrs.Location.IsDefault()},
		{"Severity", attrs.Severity.String(), attrs.Severity.IsDefault()},
		{"Visit date", attrs.VisitDate, attrs.VisitDate == ""},
		{"Name", attrs.CustomerName, attrs.CustomerName == ""},
		{"Contact", attrs.ContactInfo, attrs.ContactInfo == ""},
	}

	for _, row := range rows {
		value := row.value
		switch {
		case value == "":
			value = defaultColor.Sprint("(none)")
		case row.label == "Severity" && attrs.Severity == types.SeverityHigh:
			value = highColor.Sprint(value)
		case row.isDefault:
			value = defaultColor.Sprint(value)
		}

		if _, err := fmt.Fprintf(w, "%s %s\n", labelColor.Sprintf("%-11s", row.label+":"), value); err != nil {
			return goerr.Wrap(err, "failed to write attributes")
		}
	}
	return nil
}
