package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"time"

	"github.com/ade-tools/adectl/pkg/alarms"
	"github.com/ade-tools/adectl/pkg/cli/internal"
	"github.com/chainguard-dev/clog"
	"github.com/hako/durafmt"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

func cmdAlarms() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alarms",
		Short: "Report EPICS records that are in alarm",
	}
	cmd.AddCommand(
		cmdAlarmsCheck(),
		cmdAlarmsProcess(),
	)
	return cmd
}

func cmdAlarmsCheck() *cobra.Command {
	p := &alarmsCheckParams{}
	cmd := &cobra.Command{
		Use:   "check <records-file>",
		Short: "Read the alarm fields of the listed records and report the ones in alarm",
		Long: `Read the alarm fields of every record listed in a file, one record name per
line, and report the records in alarm as they are found.

Channel access settings such as EPICS_CA_ADDR_LIST are read from the
environment and from the file given with --env.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := clog.NewLogger(newLogger(p.verbosity))
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			ctx = clog.WithLogger(ctx, logger)

			if err := godotenv.Load(p.envFile); err != nil {
				if !errors.Is(err, fs.ErrNotExist) {
					return fmt.Errorf("loading environment: %w", err)
				}
				logger.Debugf("no environment file %s", p.envFile)
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening records file: %w", err)
			}
			defer f.Close()

			records, err := alarms.ReadRecordNames(f)
			if err != nil {
				return err
			}

			start := time.Now()
			checker := &alarms.Checker{
				Reader:     p.reader(),
				IncludeUDF: p.includeUDF,
			}
			n, err := checker.Check(ctx, records, alarms.NewReport(cmd.OutOrStdout(), p.csv))
			if errors.Is(err, context.Canceled) {
				fmt.Fprintln(cmd.ErrOrStderr(), "Aborted")
				return nil
			}
			if err != nil {
				return err
			}

			logger.Infof("%d of %s in alarm, checked in %s", n,
				internal.Count(len(records), "record", "records"),
				durafmt.Parse(time.Since(start)).LimitFirstN(2))
			return nil
		},
	}

	p.addFlagsTo(cmd)
	return cmd
}

type alarmsCheckParams struct {
	includeUDF bool
	csv        bool
	timeout    time.Duration
	rate       float64
	caget      string
	envFile    string
	verbosity  int
}

func (p *alarmsCheckParams) addFlagsTo(cmd *cobra.Command) {
	addAlarmReportFlags(&p.includeUDF, &p.csv, cmd)
	cmd.Flags().DurationVar(&p.timeout, "timeout", alarms.DefaultTimeout, "how long to wait for each channel")
	cmd.Flags().Float64Var(&p.rate, "rate", 0, "maximum channel reads per second (0 for no limit)")
	cmd.Flags().StringVar(&p.caget, "caget", "caget", "caget executable")
	cmd.Flags().StringVar(&p.envFile, "env", ".env", "file with channel access environment variables")
	addVerboseFlag(&p.verbosity, cmd)
}

func (p *alarmsCheckParams) reader() alarms.ChannelReader {
	var r alarms.ChannelReader = alarms.CagetReader{
		Path:    p.caget,
		Timeout: p.timeout,
	}
	if p.rate > 0 {
		r = &alarms.RLChannelReader{
			Reader:      r,
			Ratelimiter: rate.NewLimiter(rate.Limit(p.rate), 1),
		}
	}
	return r
}

func cmdAlarmsProcess() *cobra.Command {
	var includeUDF, csv bool
	cmd := &cobra.Command{
		Use:   "process <capture-file>",
		Short: "Report the records in alarm from a capture of their alarm fields",
		Long: `Report the records in alarm from a file of "record.FIELD,value" lines, as
written by a channel archiver export or a capture script.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening capture file: %w", err)
			}
			defer f.Close()

			records, err := alarms.ParseCapture(f)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			return alarms.NewReport(cmd.OutOrStdout(), csv).Write(records, includeUDF)
		},
	}

	addAlarmReportFlags(&includeUDF, &csv, cmd)
	return cmd
}

func addAlarmReportFlags(includeUDF, csv *bool, cmd *cobra.Command) {
	cmd.Flags().BoolVar(includeUDF, "udf", false, "also report records whose only alarm is UDF")
	cmd.Flags().BoolVar(csv, "csv", false, "write the report as CSV")
}
