package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateRandomProblemInstanceIsValid(t *testing.T) {
	// 随机生成的实例必须全部通过一致性校验，否则 seed 出来的数据没法用
	for i := 0; i < 100; i++ {
		instance := GenerateRandomProblemInstance()
		require.NoError(t, ValidateProblemInstance(instance))
	}
}

func TestGenerateRandomUser(t *testing.T) {
	user, err := GenerateRandomUser("password123")
	require.NoError(t, err)
	require.NotEmpty(t, user.Username)
	require.NotEmpty(t, user.FullName)
	require.Contains(t, user.Email, "@")
	require.NotEqual(t, "password123", user.PasswordHash)
}
