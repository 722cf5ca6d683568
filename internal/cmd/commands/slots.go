package commands

import (
	"bytes"
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"savvycal/internal/cmd/base"
	"savvycal/pkg/dates"
	"savvycal/pkg/operations"
)

type SlotsCommand struct {
	*base.Command

	flagMonth string
	flagTZ    string
	now       func() time.Time
}

func (c *SlotsCommand) Synopsis() string {
	return "Show public availability for a service"
}

func (c *SlotsCommand) Help() string {
	return `Usage: savvycal slots [options] SERVICE_ID

  Lists open slots for one month, grouped by day in the chosen time zone.
  Without -month the month of the earliest open slot is shown.` +
		c.Flags().Help()
}

func (c *SlotsCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet("slots")
	f.StringVar(&c.flagMonth, "month", "", "Month to show as YYYY-MM.")
	f.StringVar(&c.flagTZ, "tz", "", "IANA time zone. Defaults to the local zone.")
	return f
}

func (c *SlotsCommand) Run(args []string) int {
	ui := c.UI
	flags := c.Flags()
	if err := flags.Parse(args); err != nil {
		ui.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}
	if flags.NArg() != 1 {
		ui.Error("expected SERVICE_ID")
		return 1
	}
	serviceID := flags.Arg(0)

	zone := c.flagTZ
	if zone == "" {
		zone = dates.LocalTimeZone()
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		ui.Error(fmt.Sprintf("unknown time zone %q", zone))
		return 1
	}

	api, err := c.Client()
	if err != nil {
		ui.Error(base.ErrorMessage(err))
		return 1
	}
	ctx := context.Background()

	month := c.flagMonth
	if month == "" {
		earliest, err := operations.GetEarliestPublicServiceSlot(ctx, api, serviceID)
		if err != nil {
			ui.Error(base.ErrorMessage(err))
			return 1
		}
		if earliest == nil {
			ui.Output("No upcoming availability.")
			return 0
		}
		month = earliest.Start().In(loc).Format("2006-01")
	}
	first, last, err := dates.MonthRange(month, loc)
	if err != nil {
		ui.Error(err.Error())
		return 1
	}

	list, err := operations.ListPublicServiceSlots(ctx, api, serviceID, operations.SlotRange{
		From:  first.Format(dates.ISODate),
		Until: last.Format(dates.ISODate),
	})
	if err != nil {
		ui.Error(base.ErrorMessage(err))
		return 1
	}

	ui.Output(fmt.Sprintf("%s, %s", dates.FormatDate(first, dates.LongMonthAndYear), dates.TimeZoneDisplayName(zone, first)))
	if len(list.Data) == 0 {
		ui.Output("No open slots.")
		return 0
	}
	var b bytes.Buffer
	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	var prev time.Time
	for i, s := range list.Data {
		start := s.Start().In(loc)
		day := ""
		if same, _ := dates.IsSameDay(prev, start, zone); i == 0 || !same {
			day = dates.FormatDate(start, dates.LongWeekdayDate)
		}
		prev = start
		fmt.Fprintf(tw, "%s\t%s\t%s\n", day, dates.FormatDate(start, dates.ShortTime), dates.FormatDate(s.End().In(loc), dates.ShortTime))
	}
	_ = tw.Flush()
	ui.Output(string(bytes.TrimRight(b.Bytes(), "\n")))
	return 0
}
