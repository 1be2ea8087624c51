package repository

//go:generate mockgen -source=user.go -destination=mocks/user_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/margareth/analytics-api/infrastructure/database"
	"github.com/margareth/analytics-api/internal/domain"
	"github.com/margareth/analytics-api/pkg/log"
	"github.com/pkg/errors"
)

const (
	usersTable = "users"
)

type UserRepository interface {
	FindUsers(ctx context.Context, query domain.UserQuery) ([]domain.User, error)
}

type userRepository struct {
	conn *database.Connection
}

func NewUserRepository(conn *database.Connection) UserRepository {
	return &userRepository{
		conn: conn,
	}
}

func (r *userRepository) FindUsers(ctx context.Context, query domain.UserQuery) ([]domain.User, error) {
	fields := query.Fields
	if len(fields) == 0 {
		fields = domain.UserFields
	}

	if err := domain.ValidateUserFields(fields); err != nil {
		return nil, err
	}

	queryBuilder := squirrel.
		Select(fields...).
		From(usersTable).
		PlaceholderFormat(r.conn.Placeholder())

	if query.ProfileCompleted != nil {
		queryBuilder = queryBuilder.Where(squirrel.Eq{"profile_completed": *query.ProfileCompleted})
	}

	if query.Limit > 0 {
		queryBuilder = queryBuilder.Limit(query.Limit)
	}

	usersSQL, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query de usuários")
	}

	rows, err := r.conn.QueryContext(ctx, usersSQL, args...)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao consultar usuários")
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		user, err := scanUser(rows, fields)
		if errors.Is(err, ErrMalformedRecord) {
			log.ForContext(ctx).WithError(err).Warn("Usuário com formato inválido ignorado")
			continue
		}
		if err != nil {
			return nil, errors.Wrap(err, "erro ao escanear usuário")
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "erro durante a iteração de usuários")
	}

	return users, nil
}

func scanUser(rows *sql.Rows, fields []string) (domain.User, error) {
	var (
		id, email, ageGroup, hairType, visitFrequency, spendingRange, profileCompleted sql.NullString
	)

	dest := make([]any, 0, len(fields))
	for _, field := range fields {
		switch field {
		case domain.UserFieldID:
			dest = append(dest, &id)
		case domain.UserFieldEmail:
			dest = append(dest, &email)
		case domain.UserFieldProfileCompleted:
			dest = append(dest, &profileCompleted)
		case domain.UserFieldAgeGroup:
			dest = append(dest, &ageGroup)
		case domain.UserFieldHairType:
			dest = append(dest, &hairType)
		case domain.UserFieldVisitFrequency:
			dest = append(dest, &visitFrequency)
		case domain.UserFieldSpendingRange:
			dest = append(dest, &spendingRange)
		}
	}

	if err := rows.Scan(dest...); err != nil {
		return domain.User{}, err
	}

	completed, err := parseCompleted(profileCompleted)
	if err != nil {
		return domain.User{}, err
	}

	return domain.User{
		ID:               id.String,
		Email:            nullableString(email),
		ProfileCompleted: completed,
		AgeGroup:         nullableString(ageGroup),
		HairType:         nullableString(hairType),
		VisitFrequency:   nullableString(visitFrequency),
		SpendingRange:    nullableString(spendingRange),
	}, nil
}

// parseCompleted aceita booleanos do Postgres e inteiros do SQLite
func parseCompleted(value sql.NullString) (bool, error) {
	if !value.Valid {
		return false, nil
	}

	completed, err := strconv.ParseBool(strings.TrimSpace(value.String))
	if err != nil {
		return false, errors.Wrapf(ErrMalformedRecord, "profile_completed %q", value.String)
	}
	return completed, nil
}
