package repository

import (
	"context"
	"testing"

	"github.com/margareth/analytics-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_FindUsers(t *testing.T) {
	conn := newTestConnection(t)
	repo := NewUserRepository(conn)

	const insert = `INSERT INTO users (id, email, profile_completed, age_group, hair_type, visit_frequency, spending_range)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	exec(t, conn, insert, "u1", "ana@email.com", true, "26-35", "Cacheado", "Mensal", "R$100-200")
	exec(t, conn, insert, "u2", "bia@email.com", true, "18-25", domain.UnknownCategory, nil, nil)
	exec(t, conn, insert, "u3", nil, false, nil, nil, nil, nil)

	completed := true

	tests := []struct {
		name     string
		query    domain.UserQuery
		expected int
	}{
		{
			name:     "Sem filtros retorna todos os usuários",
			query:    domain.UserQuery{},
			expected: 3,
		},
		{
			name:     "Somente perfis completos",
			query:    domain.UserQuery{ProfileCompleted: &completed},
			expected: 2,
		},
		{
			name:     "Limite de linhas",
			query:    domain.UserQuery{Limit: 1},
			expected: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := repo.FindUsers(context.Background(), tt.query)
			require.NoError(t, err)
			assert.Len(t, result, tt.expected)
		})
	}

	t.Run("Atributos nulos viram ponteiros nulos", func(t *testing.T) {
		result, err := repo.FindUsers(context.Background(), domain.UserQuery{ProfileCompleted: &completed})
		require.NoError(t, err)

		byID := map[string]domain.User{}
		for _, user := range result {
			byID[user.ID] = user
		}

		require.Contains(t, byID, "u2")
		assert.True(t, byID["u2"].ProfileCompleted)
		assert.Nil(t, byID["u2"].VisitFrequency)
		assert.Equal(t, domain.UnknownCategory, *byID["u2"].HairType)
		assert.Equal(t, "Cacheado", *byID["u1"].HairType)
	})

	t.Run("Projeção com campo desconhecido", func(t *testing.T) {
		_, err := repo.FindUsers(context.Background(), domain.UserQuery{Fields: []string{"password_hash"}})
		assert.ErrorIs(t, err, domain.ErrUnknownField)
	})
}

func TestUserRepository_FindUsers_RegistroInvalido(t *testing.T) {
	conn := newTestConnection(t)
	repo := NewUserRepository(conn)

	const insert = `INSERT INTO users (id, email, profile_completed, age_group) VALUES (?, ?, ?, ?)`

	exec(t, conn, insert, "u1", "ana@email.com", true, "26-35")
	exec(t, conn, insert, "u2", "bia@email.com", "talvez", "18-25")
	exec(t, conn, insert, "u3", "carla@email.com", false, nil)

	result, err := repo.FindUsers(context.Background(), domain.UserQuery{})

	require.NoError(t, err)
	require.Len(t, result, 2)

	byID := map[string]domain.User{}
	for _, user := range result {
		byID[user.ID] = user
	}

	assert.NotContains(t, byID, "u2")
	assert.True(t, byID["u1"].ProfileCompleted)
	assert.False(t, byID["u3"].ProfileCompleted)
}
