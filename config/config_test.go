package config

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestLoadConValoresPorDefecto(t *testing.T) {
	c, err := Load(nil)
	require.NoError(t, err)
	require.Equal(t, "sqlite", c.Database.Driver)
	require.Equal(t, "horarios.db", c.Database.Path)
	require.False(t, c.Interactivo)
	require.NotNil(t, c.Logger())
	require.Equal(t, logrus.InfoLevel, c.Logger().GetLevel())
}

func TestLoadDesdeEntorno(t *testing.T) {
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DB_HOST", "db.interna")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("NOMBRES_INTERACTIVO", "true")

	c, err := Load(nil)
	require.NoError(t, err)
	require.Equal(t, "postgres", c.Database.Driver)
	require.True(t, c.Interactivo)
	require.Equal(t, logrus.DebugLevel, c.Logger().GetLevel())
	require.Contains(t, c.Database.ConnectionString(), "host=db.interna")
	require.Contains(t, c.Database.ConnectionString(), "sslmode=disable")
}

func TestLoadDriverInvalido(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")

	_, err := Load(nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "DB_DRIVER")
}
