package dto

type CreateUserDTO struct {
	Email        string  `json:"email" validate:"required,email"`
	Password     string  `json:"password" validate:"required,min=6"`
	FullName     string  `json:"full_name" validate:"required"`
	Role         string  `json:"role" validate:"omitempty,oneof=master_admin sub_admin"`
	DepartmentID *string `json:"department_id"`
}

type UpdateUserDTO struct {
	Email        *string `json:"email" validate:"omitempty,email"`
	FullName     *string `json:"full_name" validate:"omitempty,min=1"`
	Role         *string `json:"role" validate:"omitempty,oneof=master_admin sub_admin"`
	DepartmentID *string `json:"department_id"`
	Password     *string `json:"password" validate:"omitempty,min=6"`
}
