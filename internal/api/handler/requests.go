package handler

import (
	"github.com/identikit/identity-server/internal/api/validation"
)

// Request payloads and their rule sets, one validator per command. Messages
// are part of the API contract; rules on a field accumulate independently.

type signUpRequest struct {
	UserName    string `json:"userName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phoneNumber"`
}

func passwordRules(v *validation.Validator, field, value string) {
	v.Check(field, value, "required", "Password is required.").
		Check(field, value, "min=8", "Password must be at least 8 characters long.").
		Pattern(field, value, validation.UppercasePattern, "Password must contain at least one uppercase letter.").
		Pattern(field, value, validation.LowercasePattern, "Password must contain at least one lowercase letter.").
		Pattern(field, value, validation.DigitPattern, "Password must contain at least one number.").
		Pattern(field, value, validation.SpecialPattern, "Password must contain at least one special character.")
}

func (r signUpRequest) validate() validation.Errors {
	v := validation.New()

	v.Check("UserName", r.UserName, "required", "Username is required").
		Check("UserName", r.UserName, "min=2", "Username must be at least 2 characters long.").
		Check("UserName", r.UserName, "max=50", "Username must not exceed 50 characters.")

	v.Check("Email", r.Email, "required", "Email is required.").
		Check("Email", r.Email, "max=100", "Email must not exceed 100 characters.").
		Check("Email", r.Email, "email", "A valid email address is required.").
		Pattern("Email", r.Email, validation.EmailPattern, "Email format is invalid.")

	passwordRules(v, "Password", r.Password)

	v.Check("PhoneNumber", r.PhoneNumber, "required", "Phone number is required").
		Check("PhoneNumber", r.PhoneNumber, "min=10", "Phone number must be at least 10 characters long.").
		Check("PhoneNumber", r.PhoneNumber, "max=50", "Phone number must not exceed 50 characters.").
		Pattern("PhoneNumber", r.PhoneNumber, validation.NumericPattern, "Phone number must be numeric")

	return v.Errors()
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r signInRequest) validate() validation.Errors {
	v := validation.New()

	v.Check("Email", r.Email, "required", "Email is required.").
		Pattern("Email", r.Email, validation.EmailPattern, "Invalid email format.")

	v.Check("Password", r.Password, "required", "Password is required.").
		Check("Password", r.Password, "min=6", "Password must be at least 6 characters long.")

	return v.Errors()
}

type updateUserRequest struct {
	ID          int    `json:"-"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

func (r updateUserRequest) validate() validation.Errors {
	v := validation.New()

	v.Check("ID", r.ID, "required", "ID is required.").
		Check("ID", r.ID, "gt=0", "ID must be a positive number.")

	if r.Email != "" {
		v.Check("Email", r.Email, "min=5", "Email must be at least 5 characters long.").
			Check("Email", r.Email, "max=100", "Email must not exceed 100 characters.").
			Check("Email", r.Email, "email", "A valid email address is required.").
			Pattern("Email", r.Email, validation.EmailPattern, "Email format is invalid.")
	}

	if r.PhoneNumber != "" {
		v.Check("PhoneNumber", r.PhoneNumber, "min=10", "Phone number must be at least 10 characters long.").
			Check("PhoneNumber", r.PhoneNumber, "max=50", "Phone number must not exceed 50 characters.").
			Pattern("PhoneNumber", r.PhoneNumber, validation.LoosePhonePattern,
				"Phone number can only contain digits, spaces, '+', '(', ')', or '-' characters.")
	}

	return v.Errors()
}

type resetPasswordRequest struct {
	ID          int    `json:"id"`
	NewPassword string `json:"newPassword"`
}

func (r resetPasswordRequest) validate() validation.Errors {
	v := validation.New()

	v.Check("ID", r.ID, "required", "ID is required.").
		Check("ID", r.ID, "gt=0", "ID must be a positive number.")

	passwordRules(v, "NewPassword", r.NewPassword)

	return v.Errors()
}

func validateUserID(userID int) validation.Errors {
	v := validation.New()
	v.Check("UserId", userID, "required", "User Id is required.").
		Check("UserId", userID, "gt=0", "User Id must be a positive number.")
	return v.Errors()
}

func validateRoleID(roleID int) validation.Errors {
	v := validation.New()
	v.Check("RoleId", roleID, "required", "Role Id is required.").
		Check("RoleId", roleID, "gt=0", "Role Id must be a positive number.")
	return v.Errors()
}

type createRoleRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (r createRoleRequest) validate() validation.Errors {
	v := validation.New()

	v.Check("Name", r.Name, "required", "Name is required").
		Check("Name", r.Name, "min=2", "Name must be at least 2 characters long.").
		Check("Name", r.Name, "max=50", "Name must not exceed 50 characters.")

	// Create-time description minimum is two characters (the update rule set
	// below requires three), but the message has always claimed three. Both
	// the rule and the literal are part of the contract.
	v.Check("Description", r.Description, "required", "Description is required").
		Check("Description", r.Description, "min=2", "Description must be at least 3 characters long.").
		Check("Description", r.Description, "max=200", "Description must not exceed 200 characters.")

	return v.Errors()
}

type updateRoleRequest struct {
	ID          int    `json:"-"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (r updateRoleRequest) validate() validation.Errors {
	v := validation.New()

	v.Check("ID", r.ID, "required", "ID is required.").
		Check("ID", r.ID, "gt=0", "ID must be a positive number.")

	v.Check("Name", r.Name, "required", "Name is required.").
		Check("Name", r.Name, "min=2", "Name must be at least 2 characters long.").
		Check("Name", r.Name, "max=50", "Name must not exceed 50 characters.")

	v.Check("Description", r.Description, "required", "Description is required.").
		Check("Description", r.Description, "min=3", "Description must be at least 3 characters long.").
		Check("Description", r.Description, "max=200", "Description must not exceed 200 characters.")

	return v.Errors()
}

type assignRoleRequest struct {
	UserID int `json:"userId"`
	RoleID int `json:"roleId"`
}

func (r assignRoleRequest) validate() validation.Errors {
	v := validation.New()

	v.Check("UserId", r.UserID, "required", "User Id is required.").
		Check("UserId", r.UserID, "gt=0", "User Id must be a positive number.")

	v.Check("RoleId", r.RoleID, "required", "Role Id is required.").
		Check("RoleId", r.RoleID, "gt=0", "Role Id must be a positive number.")

	return v.Errors()
}
