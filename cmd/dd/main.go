package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"dealdesk/internal/app"
	"dealdesk/internal/clarity"
	"dealdesk/internal/db"
	"dealdesk/internal/domain"
	"dealdesk/internal/engine"
	"dealdesk/internal/migrate"
	"dealdesk/internal/repo"
	"dealdesk/internal/schedule"
	"dealdesk/internal/server"
)

var rootCmd = &cobra.Command{
	Use:   "dd",
	Short: "Dealdesk CLI",
	Long: `Dealdesk drafts and tracks client engagement documents.
- Workspace: your .dealdesk directory with the database; dealdesk.yml carries the profile and scope presets.
- Engagement: one client agreement (task-based or retainer) owning an append-only version history.
- Version: a numbered full snapshot of the document; saving always appends, never rewrites.
- Clarity check: flags vague or missing terms (no deposit, no exclusions, no dispute path) by severity.
- Generators: derive milestones from deliverables and a payment schedule from milestones; items you edit are never overwritten.
- Export: the assembled document with interpolated legal sections in en or ar.
- Event log: diary of changes, view with 'dd log tail'.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		workspace := viper.GetString("workspace")
		if _, err := db.EnsureWorkspace(workspace); err != nil {
			return err
		}
		return nil
	},
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("DEALDESK")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringP("workspace", "w", ".", "workspace directory")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	rootCmd.PersistentFlags().String("actor-id", "local-user", "actor identifier")
	rootCmd.PersistentFlags().String("profile", "", "business profile id (overrides config)")
	_ = viper.BindPFlag("workspace", rootCmd.PersistentFlags().Lookup("workspace"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("actor-id", rootCmd.PersistentFlags().Lookup("actor-id"))
	_ = viper.BindPFlag("profile", rootCmd.PersistentFlags().Lookup("profile"))
}

func registerCommands() {
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(engagementCmd())
	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(checkCmd())
	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(clientCmd())
	rootCmd.AddCommand(logCmd())
	rootCmd.AddCommand(apikeyCmd())
	rootCmd.AddCommand(serveCmd())
}

func initCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a workspace",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				if name != "" {
					if err := e.Repo.RenameProfile(ctx, e.Config.Profile.ID, name); err != nil {
						return err
					}
				}
				fmt.Printf("workspace ready, profile %s, database %s\n",
					e.Config.Profile.ID, db.Path(viper.GetString("workspace")))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "business profile name")
	return cmd
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Workspace status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				counts, err := e.Repo.CountEngagementsByStatus(ctx)
				if err != nil {
					return err
				}
				return printJSONOrTable(map[string]any{
					"profile_id":        e.Config.Profile.ID,
					"engagement_counts": counts,
				})
			})
		},
	}
}

func engagementCmd() *cobra.Command {
	eng := &cobra.Command{Use: "engagement", Short: "Manage engagements"}
	eng.AddCommand(engagementListCmd())
	eng.AddCommand(engagementCreateCmd())
	eng.AddCommand(engagementShowCmd())
	eng.AddCommand(engagementDuplicateCmd())
	eng.AddCommand(engagementArchiveCmd())
	eng.AddCommand(engagementRestoreCmd())
	eng.AddCommand(engagementDeleteCmd())
	eng.AddCommand(engagementFinalizeCmd())
	return eng
}

func engagementListCmd() *cobra.Command {
	var f repo.EngagementFilters
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List engagements",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				items, err := e.Repo.ListEngagements(ctx, f)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(items)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Client", "Title", "Type", "Status", "Versions", "Updated"})
				for _, it := range items {
					tw.AppendRow(table.Row{it.ID, it.ClientName, it.Title, it.Type, it.Status, it.VersionCount, it.UpdatedAt})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&f.Status, "status", "", "status filter (draft|final|archived)")
	cmd.Flags().StringVar(&f.Type, "type", "", "type filter (task|retainer)")
	cmd.Flags().StringVar(&f.Category, "category", "", "category filter")
	cmd.Flags().StringVar(&f.ProfileID, "profile-id", "", "profile id filter")
	cmd.Flags().StringVar(&f.ClientID, "client", "", "client id filter")
	cmd.Flags().StringVar(&f.ProjectID, "project", "", "project id filter")
	cmd.Flags().StringVar(&f.Search, "search", "", "match client name or title")
	cmd.Flags().BoolVar(&f.IncludeArchived, "include-archived", false, "include archived engagements")
	cmd.Flags().StringVar(&f.Sort, "sort", "", "sort order (updated_desc|updated_asc|created_desc|created_asc|client|title)")
	cmd.Flags().IntVar(&f.Limit, "limit", 50, "max rows")
	cmd.Flags().IntVar(&f.Offset, "offset", 0, "rows to skip")
	return cmd
}

func engagementCreateCmd() *cobra.Command {
	var clientID, clientName, projectID, projectName, typ, category, language, title string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create engagement",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				snap := domain.DefaultSnapshot()
				snap.Title = title
				opts := engine.CreateOptions{
					ProfileID:   e.Config.Profile.ID,
					ClientID:    clientID,
					ClientName:  clientName,
					ProjectID:   projectID,
					ProjectName: projectName,
					Type:        typ,
					Category:    category,
					Language:    language,
					Snapshot:    &snap,
					ActorID:     viper.GetString("actor-id"),
				}
				eng, v, err := e.CreateEngagement(ctx, opts)
				if err != nil {
					return err
				}
				return printJSONOrTable(map[string]any{"engagement": eng, "version": v})
			})
		},
	}
	cmd.Flags().StringVar(&clientID, "client", "", "existing client id")
	cmd.Flags().StringVar(&clientName, "client-name", "", "new client name")
	cmd.Flags().StringVar(&projectID, "project", "", "existing project id")
	cmd.Flags().StringVar(&projectName, "project-name", "", "new project name")
	cmd.Flags().StringVar(&typ, "type", "task", "task or retainer")
	cmd.Flags().StringVar(&category, "category", "other", "design|development|consulting|marketing|legal|other")
	cmd.Flags().StringVar(&language, "language", "en", "en or ar")
	cmd.Flags().StringVar(&title, "title", "", "document title")
	return cmd
}

func engagementShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show an engagement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				d, err := e.Repo.GetEngagementDisplay(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSONOrTable(d)
			})
		},
	}
	return cmd
}

func engagementDuplicateCmd() *cobra.Command {
	var newClientID, newProfileID string
	cmd := &cobra.Command{
		Use:   "duplicate <id>",
		Short: "Duplicate an engagement as a new draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				opts := engine.DuplicateOptions{NewClientID: newClientID, NewProfileID: newProfileID}
				dup, err := e.Duplicate(ctx, args[0], opts, viper.GetString("actor-id"))
				if err != nil {
					return err
				}
				return printJSONOrTable(dup)
			})
		},
	}
	cmd.Flags().StringVar(&newClientID, "client", "", "re-point the copy at this client id")
	cmd.Flags().StringVar(&newProfileID, "profile-id", "", "re-point the copy at this profile id")
	return cmd
}

func engagementArchiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "archive <id>",
		Short: "Archive an engagement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				return e.Archive(ctx, args[0], viper.GetString("actor-id"))
			})
		},
	}
}

func engagementRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <id>",
		Short: "Restore an archived engagement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				return e.Restore(ctx, args[0], viper.GetString("actor-id"))
			})
		},
	}
}

func engagementDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an engagement and its versions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("deletion is permanent; pass --yes to confirm")
			}
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				return e.Delete(ctx, args[0], viper.GetString("actor-id"))
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")
	return cmd
}

func engagementFinalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "finalize <id>",
		Short: "Finalize an engagement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				v, err := e.Finalize(ctx, args[0], viper.GetString("actor-id"))
				if err != nil {
					return err
				}
				return printJSONOrTable(v)
			})
		},
	}
}

func versionCmd() *cobra.Command {
	ver := &cobra.Command{Use: "version", Short: "Inspect version history"}
	ver.AddCommand(versionListCmd())
	ver.AddCommand(versionShowCmd())
	return ver
}

func versionListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <engagement-id>",
		Short: "List versions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd.Context(), func(ctx context.Context, r repo.Repo) error {
				items, err := r.ListVersions(ctx, args[0])
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(items)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"#", "Status", "Title", "Created"})
				for _, v := range items {
					tw.AppendRow(table.Row{v.VersionNumber, v.Status, v.Snapshot.Title, v.CreatedAt})
				}
				tw.Render()
				return nil
			})
		},
	}
	return cmd
}

func versionShowCmd() *cobra.Command {
	var number int
	cmd := &cobra.Command{
		Use:   "show <engagement-id>",
		Short: "Show one version (latest by default)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd.Context(), func(ctx context.Context, r repo.Repo) error {
				var v domain.EngagementVersion
				var err error
				if number > 0 {
					v, err = r.GetVersionByNumber(ctx, args[0], number)
				} else {
					v, err = r.LatestVersion(ctx, args[0])
				}
				if err != nil {
					return err
				}
				return printJSONOrTable(v)
			})
		},
	}
	cmd.Flags().IntVar(&number, "number", 0, "version number (0 = latest)")
	return cmd
}

func checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <engagement-id>",
		Short: "Run a clarity check on the latest version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				eng, err := e.Repo.GetEngagement(ctx, args[0])
				if err != nil {
					return err
				}
				v, err := e.Repo.LatestVersion(ctx, args[0])
				if err != nil {
					return err
				}
				risks := clarity.Evaluate(v.Snapshot, eng.Type, eng.Category)
				if viper.GetBool("json") {
					return printJSON(map[string]any{
						"risks":  risks,
						"counts": clarity.Counts(risks),
					})
				}
				if len(risks) == 0 {
					fmt.Println("no clarity risks")
					return nil
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"Severity", "Step", "Field", "Message"})
				for _, risk := range risks {
					tw.AppendRow(table.Row{risk.Severity, risk.StepIndex, risk.FieldPath, risk.MessageKey})
				}
				tw.Render()
				return nil
			})
		},
	}
	return cmd
}

func generateCmd() *cobra.Command {
	gen := &cobra.Command{Use: "generate", Short: "Run schedule generators"}
	gen.AddCommand(generateMilestonesCmd())
	gen.AddCommand(generatePaymentsCmd())
	return gen
}

func generateMilestonesCmd() *cobra.Command {
	var save bool
	cmd := &cobra.Command{
		Use:   "milestones <engagement-id>",
		Short: "Generate milestones from deliverables",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				v, err := e.Repo.LatestVersion(ctx, args[0])
				if err != nil {
					return err
				}
				snap := v.Snapshot
				snap.Milestones = schedule.GenerateMilestones(snap.Deliverables, snap.StartDate, snap.EndDate, snap.Milestones)
				if save {
					saved, err := e.SaveVersion(ctx, args[0], snap, viper.GetString("actor-id"))
					if err != nil {
						return err
					}
					return printJSONOrTable(saved)
				}
				return printJSONOrTable(snap.Milestones)
			})
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "save result as a new version")
	return cmd
}

func generatePaymentsCmd() *cobra.Command {
	var save, reset bool
	cmd := &cobra.Command{
		Use:   "payments <engagement-id>",
		Short: "Generate a payment schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				eng, err := e.Repo.GetEngagement(ctx, args[0])
				if err != nil {
					return err
				}
				v, err := e.Repo.LatestVersion(ctx, args[0])
				if err != nil {
					return err
				}
				snap := v.Snapshot
				if snap.TotalAmountMinor == nil || *snap.TotalAmountMinor <= 0 {
					return fmt.Errorf("total_amount_minor is required to generate payments")
				}
				total := *snap.TotalAmountMinor
				if reset {
					snap.ScheduleItems = schedule.ResetPayments(snap.Milestones, snap.Deliverables, total, snap.Currency, eng.PrimaryLanguage)
				} else {
					snap.ScheduleItems = schedule.GeneratePayments(snap.Milestones, snap.Deliverables, total, snap.Currency, snap.ScheduleItems, eng.PrimaryLanguage)
				}
				if save {
					saved, err := e.SaveVersion(ctx, args[0], snap, viper.GetString("actor-id"))
					if err != nil {
						return err
					}
					return printJSONOrTable(saved)
				}
				return printJSONOrTable(snap.ScheduleItems)
			})
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "save result as a new version")
	cmd.Flags().BoolVar(&reset, "reset", false, "discard edited items and regenerate everything")
	return cmd
}

func exportCmd() *cobra.Command {
	var number int
	cmd := &cobra.Command{
		Use:   "export <engagement-id>",
		Short: "Export the assembled document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				doc, err := e.Export(ctx, args[0], number)
				if err != nil {
					return err
				}
				return printJSON(doc)
			})
		},
	}
	cmd.Flags().IntVar(&number, "version", 0, "version number (0 = latest)")
	return cmd
}

func clientCmd() *cobra.Command {
	cl := &cobra.Command{Use: "client", Short: "Manage clients"}
	cl.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List clients",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd.Context(), func(ctx context.Context, r repo.Repo) error {
				items, err := r.ListClients(ctx)
				if err != nil {
					return err
				}
				return printJSONOrTable(items)
			})
		},
	})
	var name string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create client",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(name) == "" {
				return fmt.Errorf("--name required")
			}
			return withRepo(cmd.Context(), func(ctx context.Context, r repo.Repo) error {
				c := domain.Client{
					ID:        uuid.New().String(),
					Name:      strings.TrimSpace(name),
					CreatedAt: time.Now().UTC().Format(time.RFC3339),
				}
				if err := r.InsertClient(ctx, c); err != nil {
					return err
				}
				return printJSONOrTable(c)
			})
		},
	}
	create.Flags().StringVar(&name, "name", "", "client name")
	cl.AddCommand(create)
	return cl
}

func logCmd() *cobra.Command {
	lg := &cobra.Command{Use: "log", Short: "Event log"}
	var engagementID, evtType string
	var limit int
	tail := &cobra.Command{
		Use:   "tail",
		Short: "Show recent events",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd.Context(), func(ctx context.Context, r repo.Repo) error {
				items, err := r.LatestEvents(ctx, limit, engagementID, evtType)
				if err != nil {
					return err
				}
				return printJSONOrTable(items)
			})
		},
	}
	tail.Flags().StringVar(&engagementID, "engagement", "", "engagement id filter")
	tail.Flags().StringVar(&evtType, "type", "", "event type filter")
	tail.Flags().IntVar(&limit, "limit", 50, "max events")
	lg.AddCommand(tail)
	return lg
}

func apikeyCmd() *cobra.Command {
	ak := &cobra.Command{Use: "apikey", Short: "Manage API keys"}
	var name string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create API key (prints the key once)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd.Context(), func(ctx context.Context, r repo.Repo) error {
				raw := uuid.New().String() + uuid.New().String()
				key := domain.APIKey{
					ID:      uuid.New().String(),
					ActorID: viper.GetString("actor-id"),
					Name:    name,
					KeyHash: repo.HashAPIKey(raw),
				}
				if err := r.InsertAPIKey(ctx, key); err != nil {
					return err
				}
				fmt.Println(raw)
				return nil
			})
		},
	}
	create.Flags().StringVar(&name, "name", "", "key label")
	ak.AddCommand(create)
	ak.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List API keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd.Context(), func(ctx context.Context, r repo.Repo) error {
				items, err := r.ListAPIKeys(ctx, "")
				if err != nil {
					return err
				}
				return printJSONOrTable(items)
			})
		},
	})
	ak.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd.Context(), func(ctx context.Context, r repo.Repo) error {
				return r.DeleteAPIKey(ctx, args[0])
			})
		},
	})
	return ak
}

func serveCmd() *cobra.Command {
	var addr, basePath string
	var devAuth bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			workspace := viper.GetString("workspace")
			if _, err := db.EnsureWorkspace(workspace); err != nil {
				return err
			}
			conn, err := db.Open(db.Config{Workspace: workspace})
			if err != nil {
				return err
			}
			defer conn.Close()
			if err := migrate.Migrate(conn); err != nil {
				return err
			}
			r := repo.Repo{DB: conn}
			_, cfg, err := app.ResolveProfileAndConfig(cmd.Context(), workspace, viper.GetString("profile"), r)
			if err != nil {
				return err
			}
			e := engine.New(conn, cfg)
			secret := os.Getenv("DEALDESK_JWT_SECRET")
			if secret == "" {
				secret = cfg.Server.JWTSecret
			}
			if secret == "" {
				return fmt.Errorf("DEALDESK_JWT_SECRET is required for bearer auth")
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}
			if basePath == "" {
				basePath = cfg.Server.BasePath
			}
			handler, err := server.New(server.Config{
				Engine:   e,
				BasePath: basePath,
				Auth:     server.AuthConfig{JWTSecret: secret, EnableDevAuth: devAuth},
			})
			if err != nil {
				return err
			}
			srv := &http.Server{Addr: addr, Handler: handler}
			go func() {
				<-cmd.Context().Done()
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				srv.Shutdown(ctx)
			}()
			fmt.Printf("Serving Dealdesk API on http://%s%s (OpenAPI at /openapi.json, Swagger UI at /docs)\n", addr, basePath)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (defaults to config)")
	cmd.Flags().StringVar(&basePath, "base-path", "", "API base path (defaults to config)")
	cmd.Flags().BoolVar(&devAuth, "dev-auth", false, "enable /auth/dev/login")
	return cmd
}

func withEngine(ctx context.Context, fn func(context.Context, engine.Engine) error) error {
	workspace := viper.GetString("workspace")
	conn, err := db.Open(db.Config{Workspace: workspace})
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := migrate.Migrate(conn); err != nil {
		return err
	}
	r := repo.Repo{DB: conn}
	_, cfg, err := app.ResolveProfileAndConfig(ctx, workspace, viper.GetString("profile"), r)
	if err != nil {
		return err
	}
	e := engine.New(conn, cfg)
	return fn(ctx, e)
}

func withRepo(ctx context.Context, fn func(context.Context, repo.Repo) error) error {
	workspace := viper.GetString("workspace")
	conn, err := db.Open(db.Config{Workspace: workspace})
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := migrate.Migrate(conn); err != nil {
		return err
	}
	return fn(ctx, repo.Repo{DB: conn})
}

func printJSONOrTable(v any) error {
	if viper.GetBool("json") {
		return printJSON(v)
	}
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
