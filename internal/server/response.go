package server

import (
	"github.com/pable/go-season-merge/internal/model"
	"github.com/pable/go-season-merge/internal/season"
)

// uploadResponse is the bundle plus the envelope fields web clients check.
// The upload form reads most_wins entries as {driver, team, wins} and
// podiums as one bare list of finishers per race, so those two sections
// replace the bundle's own.
type uploadResponse struct {
	Status string `json:"status"`
	RunID  string `json:"run_id"`
	model.Bundle
	MostWins []winEntry           `json:"most_wins"`
	Podiums  [][]model.PodiumEntry `json:"podiums"`
}

type winEntry struct {
	PlayerID model.PlayerID `json:"player_id"`
	Driver   string         `json:"driver"`
	Team     model.Team     `json:"team"`
	Wins     int            `json:"wins"`
}

func newUploadResponse(res *season.Result) uploadResponse {
	b := res.Bundle
	wins := make([]winEntry, len(b.MostWins))
	for i, e := range b.MostWins {
		wins[i] = winEntry{PlayerID: e.PlayerID, Driver: e.Driver, Team: e.Team, Wins: e.Count}
	}
	podiums := make([][]model.PodiumEntry, len(b.Podiums))
	for i, p := range b.Podiums {
		podiums[i] = p.Entries
		if podiums[i] == nil {
			podiums[i] = []model.PodiumEntry{}
		}
	}
	return uploadResponse{
		Status:   "success",
		RunID:    res.RunID.String(),
		Bundle:   b,
		MostWins: wins,
		Podiums:  podiums,
	}
}
