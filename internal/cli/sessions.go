package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// sessionsCommand creates the session management command.
func (c *CLI) sessionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Manage exploration sessions",
	}

	cmd.AddCommand(c.sessionsListCommand())
	cmd.AddCommand(c.sessionsShowCommand())
	cmd.AddCommand(c.sessionsDeleteCommand())

	return cmd
}

// sessionsListCommand creates the "sessions list" subcommand.
func (c *CLI) sessionsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List exploration sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.newSessionStore()
			if err != nil {
				return fmt.Errorf("open session store: %w", err)
			}
			defer store.Close()

			names, err := store.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("list sessions: %w", err)
			}
			if len(names) == 0 {
				printInfo("No sessions yet")
				printNextStep("Start one", "flockview explore snapshot.json --session mygroup")
				return nil
			}

			for _, name := range names {
				sess, err := store.Get(cmd.Context(), name)
				if err != nil {
					printDetail("%s (unreadable: %v)", name, err)
					continue
				}
				printInfo("%s", StyleHighlight.Render(sess.Name))
				printDetail("%d frames · %s · updated %s",
					sess.Frames, sess.Engine, formatRelativeTime(sess.UpdatedAt))
			}
			return nil
		},
	}
}

// sessionsShowCommand creates the "sessions show" subcommand.
func (c *CLI) sessionsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [name]",
		Short: "Show one session in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.newSessionStore()
			if err != nil {
				return fmt.Errorf("open session store: %w", err)
			}
			defer store.Close()

			sess, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("load session %q: %w", args[0], err)
			}

			printKeyValue("Name", sess.Name)
			printKeyValue("Seeds", strings.Join(sess.Params.Seeds, ", "))
			printKeyValue("Size", fmt.Sprintf("%d", sess.Params.SubgraphSize))
			printKeyValue("Engine", sess.Engine)
			printKeyValue("Snapshot", sess.SnapshotPath)
			printKeyValue("Frames", fmt.Sprintf("%d", sess.Frames))
			printKeyValue("Positions", fmt.Sprintf("%d nodes", len(sess.Positions)))
			printKeyValue("View hash", sess.ViewHash)
			printKeyValue("Updated", formatRelativeTime(sess.UpdatedAt))
			return nil
		},
	}
}

// sessionsDeleteCommand creates the "sessions delete" subcommand.
func (c *CLI) sessionsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [name]",
		Short: "Delete a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.newSessionStore()
			if err != nil {
				return fmt.Errorf("open session store: %w", err)
			}
			defer store.Close()

			if err := store.Delete(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("delete session %q: %w", args[0], err)
			}
			printSuccess("Deleted session %q", args[0])
			return nil
		},
	}
}

// formatRelativeTime renders t as a coarse "3h ago" style string.
func formatRelativeTime(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
