package models

// Venue is a discoteca: the container an owner creates events under.
// JSON field names match what the existing web client stores in the tree.
type Venue struct {
	ID        string `json:"id" validate:"required"`
	Name      string `json:"nombre" validate:"required,max=200"`
	OwnerUID  string `json:"ownerUid"`
	Location  string `json:"ubicacion,omitempty"`
	CreatedAt int64  `json:"createdAt"`
}
