package auth

import "servimarket/internal/domain"

type RegisterClientRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	Nombre    string `json:"nombre" validate:"required,min=2"`
	Ciudad    string `json:"ciudad" validate:"required"`
	Edad      int    `json:"edad" validate:"gte=18,lte=120"`
	Documento string `json:"documento" validate:"required,min=5,max=40"`
	Telefono  string `json:"telefono,omitempty"`
}

type RegisterWorkerRequest struct {
	Email       string   `json:"email" validate:"required,email"`
	Password    string   `json:"password" validate:"required,min=8"`
	Nombre      string   `json:"nombre" validate:"required,min=2"`
	Ciudad      string   `json:"ciudad" validate:"required"`
	Edad        int      `json:"edad" validate:"gte=18,lte=120"`
	Documento   string   `json:"documento" validate:"required,min=5,max=40"`
	Habilidades []string `json:"habilidades" validate:"required,min=1,dive,required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

type UserPublic struct {
	ID    int64           `json:"id"`
	Role  domain.UserRole `json:"role"`
	Name  string          `json:"name"`
	Email string          `json:"email"`
}

func toPublic(u *domain.User) UserPublic {
	return UserPublic{ID: u.ID, Role: u.Role, Name: u.Name, Email: u.Email}
}

type LoginResult struct {
	User      UserPublic `json:"user"`
	Token     string     `json:"token"`
	ExpiresIn int64      `json:"expires_in"`
}

// MeResponse carries the caller's account plus whichever profile matches its role.
type MeResponse struct {
	User   UserPublic            `json:"user"`
	Client *domain.ClientProfile `json:"perfil_cliente,omitempty"`
	Worker *WorkerProfileView    `json:"perfil_trabajador,omitempty"`
}

type WorkerProfileView struct {
	*domain.WorkerProfile
	Habilidades []string `json:"habilidades"`
}
