package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"acd-tierlist/internal/config"
	"acd-tierlist/internal/domain"
	"acd-tierlist/internal/export"
	"acd-tierlist/internal/repository"
	"acd-tierlist/internal/seed"
	"acd-tierlist/internal/service"
	"acd-tierlist/internal/store"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

const actor = "tierctl"

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp(out, errOut io.Writer) *cli.App {
	return &cli.App{
		Name:  "tierctl",
		Usage: "inspect and edit the tier list store directly",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level", Value: "warn", Usage: "zerolog level for diagnostics on stderr"},
		},
		Commands: []*cli.Command{
			{
				Name:  "bootstrap",
				Usage: "seed the store if nothing is persisted yet",
				Action: func(c *cli.Context) error {
					return withService(c, errOut, func(ctx context.Context, cfg *config.Config, svc *service.TierListService, logger zerolog.Logger) error {
						loader := seed.NewLoader(cfg, seed.NewFetcher(), logger)
						if err := svc.Bootstrap(ctx, loader); err != nil {
							return err
						}
						updated, err := svc.LastUpdated(ctx)
						if err != nil {
							return err
						}
						fmt.Fprintf(out, "tier list ready, last updated %s\n", updated.Format("2006-01-02T15:04:05Z07:00"))
						return nil
					})
				},
			},
			{
				Name:  "list",
				Usage: "print the leaderboard",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "region"},
					&cli.StringFlag{Name: "kit"},
					&cli.StringFlag{Name: "query", Aliases: []string{"q"}},
				},
				Action: func(c *cli.Context) error {
					return withService(c, errOut, func(ctx context.Context, _ *config.Config, svc *service.TierListService, _ zerolog.Logger) error {
						players, err := svc.ListPlayers(ctx, service.Filter{
							Region: c.String("region"),
							Kit:    c.String("kit"),
							Query:  c.String("query"),
						})
						if err != nil {
							return err
						}
						printPlayers(out, players)
						return nil
					})
				},
			},
			{
				Name:      "set-tier",
				Usage:     "assign a tier to a player for one kit",
				ArgsUsage: "<player-id> <kit> <tier>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 3 {
						return cli.Exit("usage: tierctl set-tier <player-id> <kit> <tier>", 2)
					}
					return withService(c, errOut, func(ctx context.Context, _ *config.Config, svc *service.TierListService, _ zerolog.Logger) error {
						p, err := svc.SetTier(ctx, c.Args().Get(0), c.Args().Get(1), c.Args().Get(2), operatorToken())
						if err != nil {
							return err
						}
						fmt.Fprintf(out, "%s (%s): %d points, %s\n", p.Name, p.ID, p.Points, p.Rank)
						return nil
					})
				},
			},
			{
				Name:  "add-player",
				Usage: "add a player",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Required: true},
					&cli.StringFlag{Name: "region"},
					&cli.StringSliceFlag{Name: "tier", Usage: "kit=TIER, repeatable"},
				},
				Action: func(c *cli.Context) error {
					tiers, err := parseAssignments(c.StringSlice("tier"))
					if err != nil {
						return cli.Exit(err.Error(), 2)
					}
					return withService(c, errOut, func(ctx context.Context, _ *config.Config, svc *service.TierListService, _ zerolog.Logger) error {
						id, err := svc.AddPlayer(ctx, domain.PlayerDraft{
							Name:   c.String("name"),
							Region: c.String("region"),
							Tiers:  tiers,
						}, operatorToken())
						if err != nil {
							return err
						}
						fmt.Fprintf(out, "added player %s\n", id)
						return nil
					})
				},
			},
			{
				Name:      "remove-player",
				Usage:     "remove a player",
				ArgsUsage: "<player-id>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return cli.Exit("usage: tierctl remove-player <player-id>", 2)
					}
					return withService(c, errOut, func(ctx context.Context, _ *config.Config, svc *service.TierListService, _ zerolog.Logger) error {
						if err := svc.RemovePlayer(ctx, c.Args().First(), operatorToken()); err != nil {
							return err
						}
						fmt.Fprintf(out, "removed player %s\n", c.Args().First())
						return nil
					})
				},
			},
			{
				Name:  "export",
				Usage: "write the leaderboard to an xlsx workbook",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: "leaderboard.xlsx"},
					&cli.StringFlag{Name: "region"},
				},
				Action: func(c *cli.Context) error {
					return withService(c, errOut, func(ctx context.Context, _ *config.Config, svc *service.TierListService, _ zerolog.Logger) error {
						players, err := svc.ListPlayers(ctx, service.Filter{Region: c.String("region")})
						if err != nil {
							return err
						}

						f, err := os.Create(c.String("out"))
						if err != nil {
							return fmt.Errorf("failed to create %s: %w", c.String("out"), err)
						}
						defer f.Close()

						if err := export.WriteXLSX(f, players); err != nil {
							return err
						}
						fmt.Fprintf(out, "wrote %d players to %s\n", len(players), c.String("out"))
						return f.Close()
					})
				},
			},
		},
	}
}

// withService opens the configured backend for the duration of one command.
func withService(c *cli.Context, errOut io.Writer, fn func(context.Context, *config.Config, *service.TierListService, zerolog.Logger) error) error {
	level, err := zerolog.ParseLevel(c.String("log-level"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("invalid log level %q", c.String("log-level")), 2)
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: errOut, NoColor: true}).
		Level(level).
		With().
		Timestamp().
		Str("actor", actor).
		Logger()

	cfg, err := config.LoadStorage(logger)
	if err != nil {
		return err
	}

	backend, err := repository.New(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := backend.Close(); err != nil {
			logger.Warn().Err(err).Msg("error closing store backend")
		}
	}()

	svc := service.NewTierListService(store.New(backend, logger), logger)
	ctx := logger.WithContext(c.Context)
	return fn(ctx, cfg, svc, logger)
}

// operatorToken satisfies the write guard for local commands.
func operatorToken() string {
	return gonanoid.Must()
}

func parseAssignments(values []string) ([]domain.TierAssignment, error) {
	out := make([]domain.TierAssignment, 0, len(values))
	for _, v := range values {
		kit, tier, ok := strings.Cut(v, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --tier %q, want kit=TIER", v)
		}
		k, err := domain.ParseKit(kit)
		if err != nil {
			return nil, err
		}
		t, err := domain.ParseTier(tier)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.TierAssignment{Kit: k, Tier: t})
	}
	return out, nil
}

func printPlayers(w io.Writer, players []domain.Player) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tID\tNAME\tREGION\tRANK\tPOINTS")
	for i, p := range players {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d\n", i+1, p.ID, p.Name, p.Region, p.Rank, p.Points)
	}
	tw.Flush()
}
