package roles

import (
	"github.com/nick0a/founderbleed/internal/domain/model"
	"github.com/nick0a/founderbleed/internal/domain/types"
)

// MoveTask moves the task at taskIndex from the source role to the end of
// the target role's list, recalculating both roles from scratch. The
// operation is atomic: any invalid input (unknown ids, bad index, source
// equals target) returns the input list unchanged rather than surfacing an
// error mid-edit. A source role left with no tasks is retained, not
// auto-deleted, so the user can still see and undo the change.
func MoveTask(rolesIn []model.RoleRecommendation, sourceID, targetID string, taskIndex int, rates map[types.RateKey]float64) []model.RoleRecommendation {
	if sourceID == targetID {
		return rolesIn
	}
	sourceIdx := indexOf(rolesIn, sourceID)
	targetIdx := indexOf(rolesIn, targetID)
	if sourceIdx < 0 || targetIdx < 0 {
		return rolesIn
	}
	if taskIndex < 0 || taskIndex >= len(rolesIn[sourceIdx].Tasks) {
		return rolesIn
	}

	out := deepCopy(rolesIn)
	source := &out[sourceIdx]
	target := &out[targetIdx]

	task := source.Tasks[taskIndex]
	source.Tasks = append(source.Tasks[:taskIndex], source.Tasks[taskIndex+1:]...)
	Recalculate(source, rates)

	target.Tasks = append(target.Tasks, task)
	Recalculate(target, rates)

	return out
}

// Reorder moves the role at position from to position to; everything in
// between shifts. Pure position change, no recalculation. Out-of-range
// positions return the input list unchanged.
func Reorder(rolesIn []model.RoleRecommendation, from, to int) []model.RoleRecommendation {
	if from < 0 || from >= len(rolesIn) || to < 0 || to >= len(rolesIn) || from == to {
		return rolesIn
	}
	out := deepCopy(rolesIn)
	role := out[from]
	out = append(out[:from], out[from+1:]...)
	rest := append([]model.RoleRecommendation(nil), out[to:]...)
	out = append(append(out[:to:to], role), rest...)
	return out
}

func indexOf(roles []model.RoleRecommendation, id string) int {
	for i := range roles {
		if roles[i].ID == id {
			return i
		}
	}
	return -1
}

func deepCopy(roles []model.RoleRecommendation) []model.RoleRecommendation {
	out := make([]model.RoleRecommendation, len(roles))
	copy(out, roles)
	for i := range out {
		out[i].Tasks = append([]model.RoleTask(nil), roles[i].Tasks...)
	}
	return out
}
