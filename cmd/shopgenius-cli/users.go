package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/GitSubham-00/shopgenius-ai-backend/internal/storage"
)

func usersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage user accounts",
	}
	cmd.AddCommand(usersListCmd(), usersCreateCmd(), usersDeleteCmd(), usersRoleCmd())
	return cmd
}

func usersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			users, err := storage.NewUserRepository(store).List(cmd.Context())
			if err != nil {
				return err
			}
			if len(users) == 0 {
				fmt.Println("no accounts")
				return nil
			}

			for _, u := range users {
				role := color.CyanString(string(u.Role))
				if u.Role == storage.RoleAdmin {
					role = color.YellowString(string(u.Role))
				}
				fmt.Printf("%-30s  %-25s  %s  %s\n",
					u.Email, u.Name, role, u.CreatedAt.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}

func usersCreateCmd() *cobra.Command {
	var role string
	cmd := &cobra.Command{
		Use:   "create <name> <email> <password>",
		Short: "Create an account",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := storage.Role(role)
			if !r.Valid() {
				return fmt.Errorf("role must be admin or user, got %q", role)
			}

			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			user, err := storage.NewUserRepository(store).Create(cmd.Context(), args[0], args[1], args[2], r)
			if err != nil {
				return err
			}

			color.Green("created %s (%s)", user.Email, user.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&role, "role", string(storage.RoleUser), "account role (admin or user)")
	return cmd
}

func usersDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <email>",
		Short: "Delete an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if err := storage.NewUserRepository(store).DeleteByEmail(cmd.Context(), args[0]); err != nil {
				return err
			}

			color.Green("deleted %s", args[0])
			return nil
		},
	}
}

func usersRoleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "role <email> <role>",
		Short: "Change an account's role",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := storage.Role(args[1])
			if !r.Valid() {
				return fmt.Errorf("role must be admin or user, got %q", args[1])
			}

			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if err := storage.NewUserRepository(store).UpdateRole(cmd.Context(), args[0], r); err != nil {
				return err
			}

			color.Green("%s is now %s", args[0], args[1])
			return nil
		},
	}
}
