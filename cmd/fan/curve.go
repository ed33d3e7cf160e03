package fan

import (
	"bytes"
	"strconv"

	"github.com/clusterhack/argononed/cmd/global"
	"github.com/clusterhack/argononed/internal/api"
	"github.com/clusterhack/argononed/internal/ui"
	"github.com/guptarohit/asciigraph"
	"github.com/mgutz/ansi"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
)

var curveCmd = &cobra.Command{
	Use:   "curve",
	Short: "Print the active fan curve to console",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := api.NewClient()
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()

		points, err := client.FanCurve()
		if err != nil {
			return err
		}

		rows := make([][]string, 0, len(points))
		for _, point := range points {
			rows = append(rows, []string{
				strconv.FormatFloat(point.Threshold, 'f', 1, 64),
				strconv.FormatInt(int64(point.Speed), 10),
			})
		}

		tab := table.Table{
			Headers: []string{"Threshold (°C)", "Speed (%)"},
			Rows:    rows,
		}
		var buf bytes.Buffer
		tableErr := tab.WriteTable(&buf, &table.Config{
			ShowIndex:       false,
			Color:           !global.NoColor,
			AlternateColors: true,
			TitleColorCode:  ansi.ColorCode("white+buf"),
			AltColorCodes: []string{
				ansi.ColorCode("white"),
				ansi.ColorCode("white:236"),
			},
		})
		if tableErr != nil {
			panic(tableErr)
		}
		ui.Printfln(buf.String())

		if len(points) <= 0 {
			return nil
		}

		graphValues := plotValues(points)
		graph := asciigraph.Plot(graphValues, asciigraph.Height(15), asciigraph.Width(100), asciigraph.Caption("Speed (%) / Temperature (°C)"))
		ui.Printfln(graph)

		return nil
	},
}

// plotValues samples the step curve over one degree increments so the
// graph shows the hard steps instead of interpolated slopes.
func plotValues(points []api.CurvePoint) []float64 {
	start := int(points[0].Threshold) - 5
	stop := int(points[len(points)-1].Threshold) + 5

	values := make([]float64, 0, stop-start+1)
	for t := start; t <= stop; t++ {
		var speed float64
		for _, point := range points {
			if float64(t) >= point.Threshold {
				speed = float64(point.Speed)
			}
		}
		values = append(values, speed)
	}
	return values
}

func init() {
	Command.AddCommand(curveCmd)
}
