// -- cmd/post.go --
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesaworks/smartpost/api/schemas"
	"github.com/mesaworks/smartpost/internal/ingest"
	"github.com/mesaworks/smartpost/internal/joblog"
	"github.com/mesaworks/smartpost/internal/notify"
	"github.com/mesaworks/smartpost/internal/observability"
	"github.com/mesaworks/smartpost/internal/workflow"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// postFlags collects the per-job inputs of the post command. Either a JSON
// job file or the individual flags can be used; flags win over the file.
type postFlags struct {
	jobFile         string
	company         string
	title           string
	location        string
	function        string
	minSalary       int
	maxSalary       int
	descriptionFile string
	breakupFile     string
	aiGenerated     bool
	postedBy        string
}

func newPostCmd(a *app) *cobra.Command {
	flags := &postFlags{}

	postCmd := &cobra.Command{
		Use:   "post",
		Short: "Posts one job through the portal wizard",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			if err := a.cfg.ValidateTarget(); err != nil {
				return err
			}

			job, err := buildJobRecord(flags, cmd.Flags().Changed)
			if err != nil {
				return err
			}

			logger.Info("Posting job.",
				zap.String("company", job.CompanyName),
				zap.String("title", job.JobTitle))

			orch := workflow.NewOrchestrator(a.cfg, logger)
			posted := orch.Run(ctx, *job)

			notifier := notify.NewNotifier(a.cfg.Slack, logger)
			if !posted {
				if err := notifier.Send(ctx, notify.FailedMessage(*job)); err != nil {
					logger.Warn("Failure notification not delivered.", zap.Error(err))
				}
				return fmt.Errorf("job %q at %q was not posted", job.JobTitle, job.CompanyName)
			}

			// Logging and notification are best-effort after the fact; the
			// posting already happened and cannot be rolled back.
			if err := joblog.NewLogger(a.cfg.Sheets, logger).Record(ctx, *job); err != nil {
				logger.Warn("Posted job not recorded in sheet.", zap.Error(err))
			}
			if err := notifier.Send(ctx, notify.PostedMessage(*job)); err != nil {
				logger.Warn("Success notification not delivered.", zap.Error(err))
			}

			fmt.Printf("Job posted: %s at %s\n", job.JobTitle, job.CompanyName)
			return nil
		},
	}

	postCmd.Flags().StringVar(&flags.jobFile, "job-file", "", "JSON file with the job record")
	postCmd.Flags().StringVar(&flags.company, "company", "", "Company name")
	postCmd.Flags().StringVar(&flags.title, "title", "", "Job title")
	postCmd.Flags().StringVar(&flags.location, "location", "Pune", "Job location")
	postCmd.Flags().StringVar(&flags.function, "function", "", "Job function category")
	postCmd.Flags().IntVar(&flags.minSalary, "min-salary", 0, "Minimum annual salary")
	postCmd.Flags().IntVar(&flags.maxSalary, "max-salary", 0, "Maximum annual salary")
	postCmd.Flags().StringVar(&flags.descriptionFile, "description-file", "", "File with the job description (.txt/.md/.pdf/.docx)")
	postCmd.Flags().StringVar(&flags.breakupFile, "breakup-file", "", "File with the salary breakup text")
	postCmd.Flags().BoolVar(&flags.aiGenerated, "ai-generated", false, "Mark the description as machine-generated")
	postCmd.Flags().StringVar(&flags.postedBy, "posted-by", "", "Name of the submitting operator")

	return postCmd
}

// buildJobRecord assembles and validates the job record from the flag set.
// changed reports whether a flag was explicitly set, so explicit flags can
// override values from the job file.
func buildJobRecord(flags *postFlags, changed func(string) bool) (*schemas.JobRecord, error) {
	job := &schemas.JobRecord{}

	if flags.jobFile != "" {
		data, err := os.ReadFile(flags.jobFile)
		if err != nil {
			return nil, fmt.Errorf("could not read job file: %w", err)
		}
		if err := json.Unmarshal(data, job); err != nil {
			return nil, fmt.Errorf("could not parse job file: %w", err)
		}
	}

	applyFlag := func(name string, apply func()) {
		if flags.jobFile == "" || changed(name) {
			apply()
		}
	}
	applyFlag("company", func() { job.CompanyName = flags.company })
	applyFlag("title", func() { job.JobTitle = flags.title })
	applyFlag("location", func() { job.Location = flags.location })
	applyFlag("function", func() { job.JobFunction = schemas.JobFunction(flags.function) })
	applyFlag("min-salary", func() { job.MinSalary = flags.minSalary })
	applyFlag("max-salary", func() { job.MaxSalary = flags.maxSalary })
	applyFlag("ai-generated", func() { job.AIGenerated = flags.aiGenerated })
	applyFlag("posted-by", func() { job.PostedBy = flags.postedBy })

	if flags.descriptionFile != "" {
		text, err := ingest.ReadFile(flags.descriptionFile)
		if err != nil {
			return nil, fmt.Errorf("could not read description: %w", err)
		}
		job.JobDescription = text
	}
	if flags.breakupFile != "" {
		text, err := ingest.ReadFile(flags.breakupFile)
		if err != nil {
			return nil, fmt.Errorf("could not read salary breakup: %w", err)
		}
		job.SalaryBreakup = text
	}

	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now()
	}

	if err := validateJobRecord(job); err != nil {
		return nil, err
	}
	return job, nil
}

// validateJobRecord enforces the input boundary the workflow itself does
// not: required fields, a known job function, and salary ordering. The
// workflow would happily post an inverted range; the portal is permissive
// there, so the check belongs here.
func validateJobRecord(job *schemas.JobRecord) error {
	if err := validator.New().Struct(job); err != nil {
		return fmt.Errorf("invalid job record: %w", err)
	}
	if !job.JobFunction.Valid() {
		return fmt.Errorf("unknown job function %q (want one of %v)", job.JobFunction, schemas.JobFunctions)
	}
	if job.MaxSalary < job.MinSalary {
		return fmt.Errorf("maximum salary %d is below minimum salary %d", job.MaxSalary, job.MinSalary)
	}
	return nil
}
