package cli

import (
	"context"
	"log"

	"servimarket/internal/database"
	"servimarket/internal/domain"
	"servimarket/internal/repository"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

const seedPassword = "demo12345"

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create demo admin, client and worker accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, err := bootstrap()
		if err != nil {
			return err
		}
		if err := database.RunMigrations(db, cfg.DatabaseURL); err != nil {
			return err
		}
		return seed(cmd.Context(), repository.NewUserRepository(db), repository.NewPublicationRepository(db))
	},
}

func seed(ctx context.Context, users *repository.UserRepository, pubs *repository.PublicationRepository) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &domain.User{Email: "admin@servimarket.local", PasswordHash: string(hash), Role: domain.RoleAdmin, Name: "Administrador"}
	if err := createIfMissing(ctx, users, admin, func() error { return users.Create(ctx, admin) }); err != nil {
		return err
	}

	client := &domain.User{Email: "ana@servimarket.local", PasswordHash: string(hash), Role: domain.RoleClient, Name: "Ana"}
	created := false
	if err := createIfMissing(ctx, users, client, func() error {
		created = true
		return users.CreateClient(ctx, client, &domain.ClientProfile{
			Nombre: "Ana", Ciudad: "Bogotá", Edad: 34, Documento: "1000000001",
		})
	}); err != nil {
		return err
	}

	worker := &domain.User{Email: "luis@servimarket.local", PasswordHash: string(hash), Role: domain.RoleWorker, Name: "Luis"}
	if err := createIfMissing(ctx, users, worker, func() error {
		return users.CreateWorker(ctx, worker, &domain.WorkerProfile{
			Nombre: "Luis", Ciudad: "Bogotá", Edad: 41, Documento: "1000000002",
			Habilidades: domain.JoinSkills([]string{"plomería", "electricidad"}),
		})
	}); err != nil {
		return err
	}

	if created {
		p := &domain.Publication{
			ID:           uuid.New().String(),
			ClienteID:    client.ID,
			Titulo:       "Reparar fuga en el baño",
			Descripcion:  "Gotea la llave del lavamanos desde hace una semana.",
			Categoria:    "PLOMERIA",
			Ciudad:       "Bogotá",
			PrecioMaximo: 150000,
			Activa:       true,
			CreatedAt:    domain.Now(),
		}
		if err := pubs.Create(ctx, p); err != nil {
			return err
		}
		log.Printf("seed publication id=%s", p.ID)
	}

	log.Printf("seed completed (password for all demo users: %s)", seedPassword)
	return nil
}

func createIfMissing(ctx context.Context, users *repository.UserRepository, u *domain.User, create func() error) error {
	exists, err := users.EmailExists(ctx, u.Email)
	if err != nil {
		return err
	}
	if exists {
		log.Printf("seed skip email=%s", u.Email)
		return nil
	}
	if err := create(); err != nil {
		return err
	}
	log.Printf("seed user id=%d email=%s role=%s", u.ID, u.Email, u.Role)
	return nil
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
