package tasks

import (
    "sort"

    "grind-task-man/internal/config"
)

type GroupMetadata = config.Group

type Group struct {
    Metadata GroupMetadata
    Tasks    []Task
}

// GroupBy buckets tasks by their #group tag. Configured groups come first in
// priority order, unknown groups follow by first appearance and ungrouped
// tasks form the last bucket (empty ID).
func GroupBy(ts []Task, metas []GroupMetadata) []Group {
    known := make(map[string]GroupMetadata, len(metas))
    for _, m := range metas { known[m.ID] = m }

    index := map[string]int{}
    var groups []Group
    for _, t := range ts {
        id := t.Group
        i, ok := index[id]
        if !ok {
            meta, found := known[id]
            if !found { meta = GroupMetadata{ID: id, Title: id} }
            if id == "" { meta.Title = "Ungrouped" }
            groups = append(groups, Group{Metadata: meta})
            i = len(groups) - 1
            index[id] = i
        }
        groups[i].Tasks = append(groups[i].Tasks, t)
    }

    sort.SliceStable(groups, func(i, j int) bool {
        a, b := groups[i], groups[j]
        if (a.Metadata.ID == "") != (b.Metadata.ID == "") { return b.Metadata.ID == "" }
        _, ak := known[a.Metadata.ID]
        _, bk := known[b.Metadata.ID]
        if ak != bk { return ak }
        if ak { return a.Metadata.Priority < b.Metadata.Priority }
        return false
    })
    return groups
}
