package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name    string
		owner   string
		dogName string
		want    string
	}{
		{"with dog", "Jane Doe", "Rex", "Jane Doe w/ Rex"},
		{"trims dog name", "Jane Doe", "  Rex ", "Jane Doe w/ Rex"},
		{"empty dog name", "Jane Doe", "", "Jane Doe"},
		{"whitespace dog name", "Jane Doe", "   ", "Jane Doe"},
		{"n/a placeholder", "Jane Doe", "N/A", "Jane Doe"},
		{"lowercase n/a", "Jane Doe", "n/a", "Jane Doe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayName(tt.owner, tt.dogName))
		})
	}
}

func TestClient_OwnerFullName(t *testing.T) {
	c := &Client{OwnerFirstName: "Jane", OwnerLastName: "Doe"}
	assert.Equal(t, "Jane Doe", c.OwnerFullName())

	single := &Client{OwnerFirstName: "Jane"}
	assert.Equal(t, "Jane", single.OwnerFullName())
}

func TestClient_DisplayName(t *testing.T) {
	c := &Client{OwnerFirstName: "Jane", OwnerLastName: "Doe", DogName: "Rex"}
	assert.Equal(t, "Jane Doe w/ Rex", c.DisplayName())
}
