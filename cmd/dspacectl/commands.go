package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	dspace "github.com/divinity/dspace.go"
	"github.com/divinity/dspace.go/internal/codec"
	"github.com/divinity/dspace.go/pkg/config"
	"github.com/divinity/dspace.go/pkg/models"
	"github.com/divinity/dspace.go/pkg/search"
)

var stdout io.Writer = os.Stdout

// withClient loads the configuration named by --config and runs fn with a
// client built from it.
func withClient(ctx context.Context, cmd *cli.Command, fn func(*dspace.Client) error) error {
	cfg := config.NewDefaultConfig()
	if err := config.Load(cmd.String("config"), cfg); err != nil {
		return err
	}
	client, err := dspace.FromConfig(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Close()
	return fn(client)
}

// emit writes v as one JSON line.
func emit(v any) error {
	return codec.NewJSON().NewEncoder(stdout).Encode(v)
}

var statusCommand = &cli.Command{
	Name:  "status",
	Usage: "Log in and print the authentication status",
	Action: func(ctx context.Context, cmd *cli.Command) error {
		return withClient(ctx, cmd, func(c *dspace.Client) error {
			if err := c.Login(ctx); err != nil {
				return err
			}
			status, err := c.Status(ctx)
			if err != nil {
				return err
			}
			out := map[string]any{
				"okay":          status.Okay,
				"authenticated": status.Authenticated,
				"eperson":       status.EPersonHref,
			}
			if exp, err := c.SessionExpiry(ctx); err == nil {
				out["expires"] = exp
			}
			return emit(out)
		})
	},
}

var infoCommand = &cli.Command{
	Name:  "info",
	Usage: "Print what the API root reports about the server",
	Action: func(ctx context.Context, cmd *cli.Command) error {
		return withClient(ctx, cmd, func(c *dspace.Client) error {
			info, err := c.ServerInfo(ctx)
			if err != nil {
				return err
			}
			return emit(map[string]any{
				"name":    info.Name,
				"ui":      info.UIURL,
				"server":  info.Server,
				"version": info.Version.String(),
			})
		})
	},
}

var itemsCommand = &cli.Command{
	Name:  "items",
	Usage: "List, read and delete items",
	Commands: []*cli.Command{
		{
			Name:  "list",
			Usage: "Print every item, one JSON object per line",
			Flags: []cli.Flag{
				&cli.IntFlag{Name: "page-size", Value: 100, Usage: "Items per page request"},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withClient(ctx, cmd, func(c *dspace.Client) error {
					it := c.ListItems(dspace.WithPageSize(int(cmd.Int("page-size"))))
					for it.Next(ctx) {
						if err := emit(it.Document()); err != nil {
							return err
						}
					}
					return it.Err()
				})
			},
		},
		{
			Name:      "get",
			Usage:     "Print one item",
			ArgsUsage: "ID",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				id, err := requireArg(cmd, "ID")
				if err != nil {
					return err
				}
				return withClient(ctx, cmd, func(c *dspace.Client) error {
					item, err := c.GetItem(ctx, id)
					if err != nil {
						return err
					}
					return emit(item)
				})
			},
		},
		{
			Name:      "delete",
			Usage:     "Delete one item",
			ArgsUsage: "ID",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				id, err := requireArg(cmd, "ID")
				if err != nil {
					return err
				}
				return withClient(ctx, cmd, func(c *dspace.Client) error {
					if err := c.DeleteItem(ctx, id); err != nil {
						return err
					}
					return emit(map[string]any{"deleted": id})
				})
			},
		},
	},
}

var searchCommand = &cli.Command{
	Name:      "search",
	Usage:     "Run a discovery query and print the hits",
	ArgsUsage: "[QUERY]",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "scope", Usage: "Limit to a community or collection uuid"},
		&cli.StringSliceFlag{Name: "filter", Aliases: []string{"f"}, Usage: "Filter as key=value or key=value,operator"},
		&cli.StringFlag{Name: "sort", Usage: "Sort field, with an optional ,ASC or ,DESC"},
		&cli.StringSliceFlag{Name: "pluck", Aliases: []string{"p"}, Usage: "Field to print, meta:<key> for metadata, alias with field=alias"},
		&cli.IntFlag{Name: "page-size", Value: 20},
		&cli.BoolFlag{Name: "all", Usage: "Follow every page"},
	},
	Action: func(ctx context.Context, cmd *cli.Command) error {
		q, err := buildSearch(cmd.Args().First(), cmd.String("scope"), cmd.StringSlice("filter"), cmd.String("sort"), cmd.StringSlice("pluck"))
		if err != nil {
			return err
		}
		q.PageSize = int(cmd.Int("page-size"))
		return withClient(ctx, cmd, func(c *dspace.Client) error {
			for {
				hits, err := c.Search(ctx, q, "uuid")
				if err != nil {
					return err
				}
				for _, h := range hits {
					if err := emit(map[string]any{"uuid": h.Key, "value": h.Value}); err != nil {
						return err
					}
				}
				if !cmd.Bool("all") || !q.NextPage() {
					return nil
				}
			}
		})
	},
}

var relationshipsCommand = &cli.Command{
	Name:  "relationships",
	Usage: "Inspect and reconcile item relationships",
	Commands: []*cli.Command{
		{
			Name:      "list",
			Usage:     "Print the relationships of an item",
			ArgsUsage: "ITEM",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				id, err := requireArg(cmd, "ITEM")
				if err != nil {
					return err
				}
				return withClient(ctx, cmd, func(c *dspace.Client) error {
					rels, err := c.ItemRelationships(ctx, id)
					if err != nil {
						return err
					}
					for _, r := range rels {
						if err := emit(r); err != nil {
							return err
						}
					}
					return nil
				})
			},
		},
		{
			Name:      "sync",
			Usage:     "Make the relationships of ITEM match the given links",
			ArgsUsage: "ITEM",
			Flags: []cli.Flag{
				&cli.StringSliceFlag{Name: "link", Aliases: []string{"l"}, Usage: "Wanted link as typeID:rightItemID[:entityType]"},
				&cli.BoolFlag{Name: "dry-run", Usage: "Print the plan without changing anything"},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				id, err := requireArg(cmd, "ITEM")
				if err != nil {
					return err
				}
				item := models.NewItem("")
				item.ID = id
				for _, l := range cmd.StringSlice("link") {
					e, err := parseLink(l)
					if err != nil {
						return err
					}
					if err := item.AddEntity(e); err != nil {
						return err
					}
				}
				return withClient(ctx, cmd, func(c *dspace.Client) error {
					var plan dspace.RelationshipPlan
					if cmd.Bool("dry-run") {
						plan, err = c.PlanRelationshipSync(ctx, item)
					} else {
						plan, err = c.SyncRelationships(ctx, item)
					}
					if err != nil {
						return err
					}
					return emit(planOutput(plan, cmd.Bool("dry-run")))
				})
			},
		},
	},
}

func requireArg(cmd *cli.Command, name string) (string, error) {
	arg := cmd.Args().First()
	if arg == "" {
		return "", fmt.Errorf("%s is required", name)
	}
	return arg, nil
}

// parseLink reads typeID:rightItemID[:entityType].
func parseLink(s string) (*models.Item, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 || parts[1] == "" {
		return nil, fmt.Errorf("link %q: want typeID:rightItemID[:entityType]", s)
	}
	typeID, err := strconv.Atoi(parts[0])
	if err != nil || typeID <= 0 {
		return nil, fmt.Errorf("link %q: bad relationship type id", s)
	}
	entityType := "Item"
	if len(parts) == 3 && parts[2] != "" {
		entityType = parts[2]
	}
	e := models.NewItem("")
	e.ID = parts[1]
	e.RelationshipTypeID = typeID
	e.SetEntityType(entityType)
	return e, nil
}

// buildSearch turns command line arguments into a search.
func buildSearch(query, scope string, filters []string, sortBy string, pluck []string) (*search.Search, error) {
	q := search.New()
	q.Query = query
	q.Scope = scope
	for _, f := range filters {
		key, rest, ok := strings.Cut(f, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("filter %q: want key=value", f)
		}
		value, op, _ := strings.Cut(rest, ",")
		if !strings.HasPrefix(key, "f.") {
			key = "f." + key
		}
		q.AddFilter(key, value, op)
	}
	if sortBy != "" {
		field, dir, _ := strings.Cut(sortBy, ",")
		q.SortBy(field, search.Direction(strings.ToUpper(dir)))
	}
	for _, p := range pluck {
		if field, alias, ok := strings.Cut(p, "="); ok {
			q.Pluck(field, alias)
		} else {
			q.Pluck(p)
		}
	}
	return q, q.Validate()
}

func planOutput(plan dspace.RelationshipPlan, dryRun bool) map[string]any {
	deleted := make([]string, 0, len(plan.Delete))
	for _, r := range plan.Delete {
		deleted = append(deleted, r.Key())
	}
	created := make([]string, 0, len(plan.Create))
	for _, e := range plan.Create {
		created = append(created, models.RelationshipKey(e.RelationshipTypeID, e.ID))
	}
	return map[string]any{"dryRun": dryRun, "delete": deleted, "create": created}
}
