package deployed

import (
	"time"

	"github.com/goliatone/go-tablegen/pkg/model"
)

// Mode selects which user services the panel lists.
type Mode string

const (
	ModeCache    Mode = "cache"
	ModeAssigned Mode = "assigned"
)

func (m Mode) valid() bool {
	return m == ModeCache || m == ModeAssigned
}

// TableInfo returns the schema of the panel in mode. Both modes share the
// identity, state and date columns; cache adds the cache level, assigned adds
// owner and usage.
func TableInfo(mode Mode) model.TableInfo {
	fields := model.FieldList{
		{Key: "id", Options: model.FieldOptions{Title: "Id", Visible: model.Bool(false)}},
		{Key: "uniqueId", Options: model.FieldOptions{Title: "Unique ID"}},
		{Key: "friendlyName", Options: model.FieldOptions{Title: "Friendly name"}},
		{Key: "revision", Options: model.FieldOptions{Title: "Revision", Width: "6em"}},
		{Key: "creationDate", Options: model.FieldOptions{Title: "Creation date", Type: "datetime"}},
		{Key: "state", Options: model.FieldOptions{Title: "State", Type: "dict", Dict: StateNames()}},
		{Key: "stateDate", Options: model.FieldOptions{Title: "State date", Type: "datetime"}},
	}
	title := "Assigned services"
	switch mode {
	case ModeCache:
		title = "Cache"
		fields = append(fields,
			model.FieldDescriptor{Key: "cacheLevel", Options: model.FieldOptions{Title: "Cache level"}},
		)
	default:
		fields = append(fields,
			model.FieldDescriptor{Key: "owner", Options: model.FieldOptions{Title: "Owner"}},
			model.FieldDescriptor{Key: "inUse", Options: model.FieldOptions{
				Title: "In use",
				Type:  "dict",
				Dict:  map[string]string{"true": "Yes", "false": "No"},
			}},
		)
	}
	return model.TableInfo{Title: title, Fields: fields}
}

// Row converts svc into a table row for mode.
func Row(mode Mode, svc UserService) model.Row {
	row := model.Row{
		"id":           svc.ID,
		"uniqueId":     svc.UniqueID,
		"friendlyName": svc.FriendlyName,
		"revision":     svc.Revision,
		"creationDate": epoch(svc.CreationDate),
		"state":        StateKey(svc.State, svc.OSState),
		"stateDate":    epoch(svc.StateDate),
	}
	if mode == ModeCache {
		row["cacheLevel"] = svc.CacheLevel
	} else {
		row["owner"] = svc.Owner
		row["inUse"] = svc.InUse
	}
	return row
}

// epoch returns Unix seconds, or nil for the zero time so the cell renders
// the placeholder.
func epoch(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Unix()
}
