package cli

import (
	"context"

	"github.com/m-mizutani/fireconf"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/junglesafari/safaridesk/pkg/cli/config"
	"github.com/junglesafari/safaridesk/pkg/repository/firestore"
	"github.com/junglesafari/safaridesk/pkg/utils/logging"
	"github.com/junglesafari/safaridesk/pkg/utils/safe"
)

func cmdMigrate() *cli.Command {
	var repoCfg config.Repository
	var dryRun bool

	flags := append(repoCfg.Flags(), &cli.BoolFlag{
		Name:        "dry-run",
		Usage:       "Print the index changes without applying them",
		Destination: &dryRun,
	})

	return &cli.Command{
		Name:    "migrate",
		Aliases: []string{"m"},
		Usage:   "Create the Firestore composite indexes used to list complaints",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if repoCfg.ProjectID() == "" {
				return goerr.Wrap(config.ErrMissingFlag, "migrate needs a Firestore project", goerr.V(config.FlagKey, "firestore-project-id"))
			}
			logging.Default().Info("Migrate configuration", "repository", repoCfg, "dry_run", dryRun)

			client, err := fireconf.NewClient(ctx, repoCfg.ProjectID(), repoCfg.DatabaseID())
			if err != nil {
				return goerr.Wrap(err, "failed to create fireconf client")
			}
			defer safe.Close(ctx, client, "fireconf client")

			indexes := getIndexConfig(repoCfg.Prefix())
			if dryRun {
				plan, err := client.GetMigrationPlan(ctx, indexes)
				if err != nil {
					return goerr.Wrap(err, "failed to build index migration plan")
				}
				if len(plan.Steps) == 0 {
					logging.Default().Info("Complaint indexes need no changes")
				}
				for _, step := range plan.Steps {
					logging.Default().Info("Planned index change",
						"collection", step.Collection,
						"operation", step.Operation,
						"description", step.Description,
						"destructive", step.Destructive,
					)
				}
				return nil
			}

			if err := client.Migrate(ctx, indexes); err != nil {
				return goerr.Wrap(err, "failed to apply index migration")
			}
			logging.Default().Info("Complaint indexes are up to date")
			return nil
		},
	}
}

// getIndexConfig lists the composite indexes behind ListComplaints filters.
// Both sort by timestamp descending.
func getIndexConfig(prefix string) *fireconf.Config {
	byField := func(field string) fireconf.Index {
		return fireconf.Index{
			Fields: []fireconf.IndexField{
				{Path: field, Order: fireconf.OrderAscending},
				{Path: "timestamp", Order: fireconf.OrderDescending},
			},
		}
	}

	return &fireconf.Config{
		Collections: []fireconf.Collection{
			{
				Name:    firestore.ComplaintsCollectionName(prefix),
				Indexes: []fireconf.Index{byField("status"), byField("session_id")},
			},
		},
	}
}
