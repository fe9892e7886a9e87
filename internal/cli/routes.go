package cli

import (
	"fmt"
	"io"
	"net/http"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kalyuk/swagdeco/annotate"
)

func newRoutesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List the routes of the demo API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := a.registry()
			if err != nil {
				return err
			}
			return printRoutes(cmd.OutOrStdout(), reg.Routes())
		},
	}
}

var methodColors = map[string]*color.Color{
	http.MethodGet:    color.New(color.FgGreen, color.Bold),
	http.MethodPost:   color.New(color.FgYellow, color.Bold),
	http.MethodPut:    color.New(color.FgCyan, color.Bold),
	http.MethodPatch:  color.New(color.FgCyan, color.Bold),
	http.MethodDelete: color.New(color.FgRed, color.Bold),
}

func printRoutes(w io.Writer, routes []annotate.RouteInfo) error {
	faint := color.New(color.Faint)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "METHOD\tPATH\tMEMBER\tPAGINATED")
	for _, r := range routes {
		method := r.Method
		if c, ok := methodColors[r.Method]; ok {
			method = c.Sprint(r.Method)
		}
		paginated := faint.Sprint("-")
		if r.Paginated {
			paginated = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s.%s\t%s\n", method, r.URL, r.Entity, r.Member, paginated)
	}
	return tw.Flush()
}
