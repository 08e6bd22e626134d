package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/fredbi/csvviz/internal/pkg/config"
	"github.com/fredbi/csvviz/internal/pkg/loader"
)

// report produces a report that explores the input datasets: as JSON, or as one table per dataset.
func (c *Command) report(ctx context.Context, cfg *config.Config) error {
	l, err := c.loadDatasets(ctx, cfg)
	if err != nil {
		return err
	}

	r := l.Report()
	if c.IsJSON {
		enc := json.NewEncoder(c.output())
		enc.SetIndent("", " ")

		return enc.Encode(r)
	}

	return c.reportTables(r)
}

func (c *Command) reportTables(r loader.LoadingReport) error {
	w := c.output()

	for _, dataset := range r.Datasets {
		if _, err := fmt.Fprintf(w, "\n%s (%s): %d records\n\n", dataset.ID, dataset.Source, dataset.Records); err != nil {
			return err
		}

		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{"Field", "Numeric", "Non numeric", "Min", "Max"})
		table.SetAutoFormatHeaders(false)
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_RIGHT)
		table.SetColumnAlignment([]int{
			tablewriter.ALIGN_LEFT,
			tablewriter.ALIGN_RIGHT,
			tablewriter.ALIGN_RIGHT,
			tablewriter.ALIGN_RIGHT,
			tablewriter.ALIGN_RIGHT,
		})

		for _, field := range dataset.Fields {
			minimum, maximum := "", ""
			if field.Numeric > 0 {
				minimum = strconv.FormatFloat(field.Min, 'g', -1, 64)
				maximum = strconv.FormatFloat(field.Max, 'g', -1, 64)
			}

			table.Append([]string{
				field.Field,
				strconv.Itoa(field.Numeric),
				strconv.Itoa(field.NonNumeric),
				minimum,
				maximum,
			})
		}

		table.Render()
	}

	_, err := fmt.Fprintf(w, "\n%d datasets, %d records\n", r.NumberOfDatasets, r.NumberOfRecords)

	return err
}
