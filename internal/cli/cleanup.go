package cli

import (
	"log"

	"servimarket/internal/domain"
	"servimarket/internal/repository"

	"github.com/spf13/cobra"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete expired and used password reset tokens",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := bootstrap()
		if err != nil {
			return err
		}
		n, err := repository.NewPasswordResetRepository(db).DeleteExpired(cmd.Context(), domain.Now())
		if err != nil {
			return err
		}
		log.Printf("cleanup completed: password_resets=%d", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanupCmd)
}
