package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"appeals-system/internal/entities"
	apperrors "appeals-system/pkg/errors"
	"appeals-system/pkg/postgis"
)

func TestParseLocate(t *testing.T) {
	p, err := ParseLocate("41.31, 69.24")
	require.NoError(t, err)
	assert.Equal(t, 41.31, p.Lat)
	assert.Equal(t, 69.24, p.Lng)
	assert.Equal(t, "POINT(69.24 41.31)", p.WKT())
}

func TestParseLocateRejectsWrongLength(t *testing.T) {
	for _, raw := range []string{"41.31", "41.31,69.24,100", "", "a,b", "91,0", "0,181"} {
		_, err := ParseLocate(raw)

		var vErr *apperrors.ValidationError
		require.ErrorAs(t, err, &vErr, raw)
		require.Len(t, vErr.Fields, 1)
		assert.Equal(t, []string{"locate"}, vErr.Fields[0].Loc)
	}
}

func TestParseLocateRejectsNonFinite(t *testing.T) {
	for _, raw := range []string{"NaN,10", "10,nan", "inf,1", "1,-Inf"} {
		_, err := ParseLocate(raw)

		var vErr *apperrors.ValidationError
		require.ErrorAs(t, err, &vErr, raw)
		assert.Equal(t, []string{"locate"}, vErr.Fields[0].Loc)
	}
}

func TestAppealUpdateFormToInput(t *testing.T) {
	in := AppealUpdateFormDTO{AppealThemeID: 4, ProblemBody: "текст", Address: "адрес", IsActive: true}.ToInput()
	assert.Equal(t, uint64(4), in.AppealThemeID)
	assert.Equal(t, "текст", in.ProblemBody)
	assert.True(t, in.IsActive)
	assert.False(t, in.Locate.Is3D())
}

func TestAppealFormToInput(t *testing.T) {
	in, err := AppealFormDTO{AppealThemeID: 3, ProblemBody: "яма", Address: "ул. Ленина", Locate: "10.5,20.25", IsActive: true}.ToInput()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), in.AppealThemeID)
	assert.Equal(t, "POINT(20.25 10.5)", in.Locate.WKT())

	_, err = AppealFormDTO{Locate: "10.5"}.ToInput()
	assert.Error(t, err)
}

func TestNewAppealDTO(t *testing.T) {
	p := postgis.NewPoint(1, 2)
	out := NewAppealDTO(&entities.UserAppeal{ID: 7, Locate: &p})

	assert.Equal(t, uint64(7), out.ID)
	assert.Equal(t, &LocateDTO{Lat: 1, Lng: 2}, out.Locate)
	assert.NotNil(t, out.UsersVoted)
}
