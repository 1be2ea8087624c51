package domain

import "strings"

// UnknownCategory é o valor gravado quando o cliente não informou o atributo
const UnknownCategory = "Não informado"

// Campos de usuário aceitos em projeções
const (
	UserFieldID               = "id"
	UserFieldEmail            = "email"
	UserFieldProfileCompleted = "profile_completed"
	UserFieldAgeGroup         = "age_group"
	UserFieldHairType         = "hair_type"
	UserFieldVisitFrequency   = "visit_frequency"
	UserFieldSpendingRange    = "spending_range"
)

var UserFields = []string{
	UserFieldID,
	UserFieldEmail,
	UserFieldProfileCompleted,
	UserFieldAgeGroup,
	UserFieldHairType,
	UserFieldVisitFrequency,
	UserFieldSpendingRange,
}

// User representa um cliente cadastrado
type User struct {
	ID               string  `json:"id"`
	Email            *string `json:"email"`
	ProfileCompleted bool    `json:"profile_completed"`
	AgeGroup         *string `json:"age_group"`
	HairType         *string `json:"hair_type"`
	VisitFrequency   *string `json:"visit_frequency"`
	SpendingRange    *string `json:"spending_range"`
}

// UserQuery descreve o filtro aplicado na busca de usuários
type UserQuery struct {
	ProfileCompleted *bool
	Fields           []string
	Limit            uint64
}

// Category normaliza um atributo categórico; ausente, vazio ou "Não informado" retornam false
func Category(value *string) (string, bool) {
	if value == nil {
		return "", false
	}

	category := strings.TrimSpace(*value)
	if category == "" || category == UnknownCategory {
		return "", false
	}
	return category, true
}

func ValidateUserFields(fields []string) error {
	return validateFields(fields, UserFields)
}
