package fidelity

import (
	"os"
	"testing"

	"go.uber.org/zap"

	"fidelity_bot/internal/models"
	"fidelity_bot/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.InfoLogger = zap.NewNop()
	logger.FatalLogger = zap.NewNop()
	os.Exit(m.Run())
}

func accountWithBalance(number string, balance float64) models.Account {
	return models.Account{Number: number, Nickname: "seed", Balance: balance}
}
