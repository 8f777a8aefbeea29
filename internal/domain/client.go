package domain

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sentinel values for a client's derived session summary fields.
// These are stored explicitly on the document, never as a missing field,
// so list views can render them without nil checks.
const (
	NoNextSession = "Not Scheduled"
	NoLastSession = "N/A"
)

// Client represents one owner/dog pairing under management by the practice.
type Client struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerFirstName    string             `bson:"ownerFirstName" json:"ownerFirstName"`
	OwnerLastName     string             `bson:"ownerLastName" json:"ownerLastName"`
	Email             string             `bson:"email" json:"email"`
	Phone             string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Postcode          string             `bson:"postcode,omitempty" json:"postcode,omitempty"`
	DogName           string             `bson:"dogName,omitempty" json:"dogName,omitempty"`
	DogSex            string             `bson:"dogSex,omitempty" json:"dogSex,omitempty"`
	DogBreed          string             `bson:"dogBreed,omitempty" json:"dogBreed,omitempty"`
	IsMember          bool               `bson:"isMember" json:"isMember"`
	BehaviourBriefKey string             `bson:"behaviourBriefKey,omitempty" json:"behaviourBriefKey,omitempty"`
	SubmittedAt       time.Time          `bson:"submittedAt,omitempty" json:"submittedAt,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`

	// Derived from the client's non-cancelled sessions. Written only by the
	// summary recomputation in the client service; never set directly.
	LastSession string `bson:"lastSession" json:"lastSession"`
	NextSession string `bson:"nextSession" json:"nextSession"`
}

// OwnerFullName joins the owner's first and last name.
func (c *Client) OwnerFullName() string {
	return strings.TrimSpace(c.OwnerFirstName + " " + c.OwnerLastName)
}

// DisplayName composes the client's list/display label from the owner's full
// name and the dog's name. A blank dog name, or the literal "n/a" placeholder
// the intake form produces, falls back to the owner's name alone.
func DisplayName(ownerFullName, dogName string) string {
	dog := strings.TrimSpace(dogName)
	if dog == "" || strings.EqualFold(dog, "n/a") {
		return ownerFullName
	}
	return ownerFullName + " w/ " + dog
}

// DisplayName returns the client's own display label.
func (c *Client) DisplayName() string {
	return DisplayName(c.OwnerFullName(), c.DogName)
}
