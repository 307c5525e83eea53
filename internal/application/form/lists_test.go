package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"investogun/internal/application/models"
	dErrors "investogun/pkg/domain-errors"
)

func TestAddRowAppendsBlankRow(t *testing.T) {
	for _, l := range Lists {
		t.Run(string(l), func(t *testing.T) {
			app := newApp()
			before := Len(app, l)

			next, err := AddRow(app, l)
			require.NoError(t, err)
			assert.Equal(t, before+1, Len(next, l))
			assert.Equal(t, before, Len(app, l), "input record must not change")
		})
	}
	_, err := AddRow(newApp(), List("pets"))
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestRemoveRowPreservesOrder(t *testing.T) {
	app := newApp()
	app.Contacts.Directors = []string{"A", "B", "C", "D"}

	next, err := RemoveRow(app, ListDirectors, 1)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "C", "D"}, next.Contacts.Directors)
	assert.Equal(t, []string{"A", "B", "C", "D"}, app.Contacts.Directors)
}

// TestRemoveRowRenumbers checks that after a removal, the row formerly at
// index i+1 is addressed as index i.
func TestRemoveRowRenumbers(t *testing.T) {
	e := NewEditor(nil)
	app := newApp()
	app.Contacts.Shareholders = []models.Shareholder{{Name: "First"}, {Name: "Second"}, {Name: "Third"}}

	app, err := RemoveRow(app, ListShareholders, 0)
	require.NoError(t, err)
	app, err = e.Set(app, "contacts.shareholders.0.percent", "55")
	require.NoError(t, err)

	assert.Equal(t, []models.Shareholder{{Name: "Second", Percent: "55"}, {Name: "Third"}}, app.Contacts.Shareholders)
	_, err = e.Set(app, "contacts.shareholders.2.name", "x")
	assert.Error(t, err)
}

func TestRemoveRowKeepsAtLeastOne(t *testing.T) {
	app := newApp()
	var err error
	for Len(app, ListTechnicalPartners) > 1 {
		app, err = RemoveRow(app, ListTechnicalPartners, 0)
		require.NoError(t, err)
	}
	assert.False(t, CanRemove(app, ListTechnicalPartners))

	next, err := RemoveRow(app, ListTechnicalPartners, 0)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	assert.Equal(t, 1, Len(next, ListTechnicalPartners))
}

func TestRemoveRowOutOfRange(t *testing.T) {
	app := newApp()
	_, err := RemoveRow(app, ListRawMaterials, models.DefaultRawMaterialRows)
	assert.Error(t, err)
	_, err = RemoveRow(app, ListRawMaterials, -1)
	assert.Error(t, err)
}

func TestParseList(t *testing.T) {
	l, err := ParseList("raw_materials")
	require.NoError(t, err)
	assert.Equal(t, ListRawMaterials, l)

	_, err = ParseList("Directors")
	assert.Error(t, err)
}
