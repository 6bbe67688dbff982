package entity

type Player struct {
	Name      string `json:"name"`
	Marker    Cell   `json:"marker"`
	Automated bool   `json:"automated,omitempty"`
}
