package models

// Stats reports the number of records per store.
// swagger:model Stats
type Stats struct {
	Items   int64 `json:"items"`
	Reviews int64 `json:"reviews"`
	Users   int64 `json:"users"`
}
