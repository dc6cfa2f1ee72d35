package abi

import "fmt"

// LevelInfo describes a level. The host copies it once, right after Init.
type LevelInfo struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Group string `json:"group"`
}

// NoInfo is the empty record.
var NoInfo = LevelInfo{}

func (i LevelInfo) String() string {
	return fmt.Sprintf("%s/%s#%d", i.Group, i.Name, i.ID)
}
