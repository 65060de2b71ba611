// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keyward Contributors

// Package seed loads initial user accounts from a YAML file.
package seed

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/samber/oops"
	"gopkg.in/yaml.v3"

	"github.com/keyward/keyward/internal/account"
	"github.com/keyward/keyward/internal/schema"
)

// SchemaID is the $id of the generated seed file schema.
const SchemaID = "https://keyward.dev/schemas/seed.schema.json"

// File is the document accepted by `keyward seed`.
type File struct {
	Users []User `json:"users" yaml:"users" jsonschema:"minItems=1"`
}

// User is one account to create.
type User struct {
	Name       string `json:"name" yaml:"name" jsonschema:"minLength=2"`
	UserName   string `json:"userName" yaml:"userName" jsonschema:"minLength=3"`
	Email      string `json:"email" yaml:"email" jsonschema:"format=email"`
	Password   string `json:"password" yaml:"password" jsonschema:"minLength=6"`
	ProfileImg string `json:"profileImg,omitempty" yaml:"profileImg,omitempty"`
	Role       string `json:"role,omitempty" yaml:"role,omitempty" jsonschema:"enum=user,enum=admin,enum=superAdmin"`
	Status     string `json:"status,omitempty" yaml:"status,omitempty" jsonschema:"enum=active,enum=blocked,enum=pending"`
}

var validator = schema.MustCompile(&File{}, schema.Messages{
	"users":    "The seed file needs at least one user.",
	"name":     "Full name must be at least 2 characters long.",
	"userName": "Username must be at least 3 characters long.",
	"email":    "Invalid email format.",
	"password": "Password must be at least 6 characters long.",
	"role":     "Role must be one of user, admin or superAdmin.",
	"status":   "Status must be one of active, blocked or pending.",
})

// GenerateSchema returns the JSON Schema for seed files.
func GenerateSchema() ([]byte, error) {
	return schema.Generate(&File{}, schema.Meta{
		ID:          SchemaID,
		Title:       "Keyward seed file",
		Description: "Initial user accounts created by keyward seed",
	})
}

// Parse validates data against the seed schema and decodes it.
func Parse(data []byte) (*File, error) {
	if err := validator.ValidateYAML(data); err != nil {
		return nil, err
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, oops.Code(schema.CodeInvalid).Public("Seed file is not valid YAML.").Wrap(err)
	}
	return &f, nil
}

// Result counts what Apply did.
type Result struct {
	Created int
	Skipped int
}

// Apply creates every user that does not exist yet. A user whose email or
// user name is taken is skipped, so running the same file twice is safe.
func Apply(ctx context.Context, users account.UserRepository, hasher account.PasswordHasher, f *File, now time.Time, logger *slog.Logger) (Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var res Result
	for i, in := range f.Users {
		email := account.NormalizeEmail(in.Email)
		exists, err := users.ExistsByEmailOrUserName(ctx, email, in.UserName)
		if err != nil {
			return res, oops.Code("SEED_FAILED").With("operation", "check existing user").With("index", i).Wrap(err)
		}
		if exists {
			logger.InfoContext(ctx, "seed user already exists, skipping", "email", email)
			res.Skipped++
			continue
		}

		user, err := build(in, hasher, now)
		if err != nil {
			return res, oops.With("index", i).With("email", email).Wrap(err)
		}
		if err := users.Create(ctx, user); err != nil {
			if errors.Is(err, account.ErrDuplicate) {
				res.Skipped++
				continue
			}
			return res, oops.Code("SEED_FAILED").With("operation", "create user").With("index", i).Wrap(err)
		}
		logger.InfoContext(ctx, "seeded user", "user_id", user.ID.String(), "email", email, "role", string(user.Role))
		res.Created++
	}
	return res, nil
}

func build(in User, hasher account.PasswordHasher, now time.Time) (*account.User, error) {
	input := account.NewUserInput{
		Name:       in.Name,
		UserName:   in.UserName,
		Email:      in.Email,
		Password:   in.Password,
		ProfileImg: in.ProfileImg,
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}
	hash, err := hasher.Hash(in.Password)
	if err != nil {
		return nil, oops.Code("SEED_FAILED").With("operation", "hash password").Wrap(err)
	}
	user, err := account.NewUser(input, hash, now)
	if err != nil {
		return nil, oops.Code("SEED_FAILED").With("operation", "build user").Wrap(err)
	}
	if in.Role != "" {
		user.Role = account.Role(in.Role)
	}
	if in.Status != "" {
		user.Status = account.Status(in.Status)
	}
	return user, nil
}
