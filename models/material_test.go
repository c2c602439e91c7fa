package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMaterialLines(t *testing.T) {
	tests := []struct {
		name    string
		raw     []string
		want    Lines
		wantErr bool
	}{
		{name: "normalises case and spaces", raw: []string{" azul", "Verde "}, want: Lines{LineAzul, LineVerde}},
		{name: "drops duplicates keeping order", raw: []string{"MARROM", "azul", "marrom"}, want: Lines{LineMarrom, LineAzul}},
		{name: "empty list", raw: nil, wantErr: true},
		{name: "unknown tag", raw: []string{"AZUL", "ROXO"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMaterialLines(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLines_MissingFrom(t *testing.T) {
	accepted := Lines{LineAzul, LineVerde}

	missing, ok := Lines{LineAzul}.MissingFrom(accepted)
	assert.True(t, ok)
	assert.Empty(t, missing)

	missing, ok = Lines{LineAzul, LineBranca, LineMarrom}.MissingFrom(accepted)
	assert.False(t, ok)
	assert.Equal(t, LineBranca, missing)

	assert.True(t, Lines{LineVerde, LineAzul}.CoveredBy(accepted))
	assert.False(t, Lines{LineMarrom}.CoveredBy(nil))
}

func TestClient_DisplayName(t *testing.T) {
	assert.Equal(t, "Ana Souza", (&Client{Individual: &Individual{FirstName: "Ana", LastName: "Souza"}}).DisplayName())
	assert.Equal(t, "Padaria Sol", (&Client{Company: &Company{CompanyName: "Padaria Sol"}}).DisplayName())
	assert.Equal(t, "Cliente", (&Client{}).DisplayName())
}

func TestAddress_Coordinates(t *testing.T) {
	var a Address
	assert.Nil(t, a.Coordinates())

	a.SetCoordinates(Coordinates{Latitude: -23.55, Longitude: -46.63})
	require.NotNil(t, a.Coordinates())
	assert.Equal(t, -23.55, a.Coordinates().Latitude)
}
