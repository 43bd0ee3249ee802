package audit

import "strings"

// Classification by naming convention. Operation and handler names carry a
// weak but reliable signal ("deleteKegiatanById", "SatkerHandler"); an ordered
// keyword table turns it into a typed classification. First match wins, so
// more specific keywords must precede the generic ones they contain.

type actionRule struct {
	keyword string
	action  ActionType
}

var actionRules = []actionRule{
	{"create", ActionCreate},
	{"save", ActionCreate},
	{"add", ActionCreate},
	{"update", ActionUpdate},
	{"edit", ActionUpdate},
	{"patch", ActionUpdate},
	{"delete", ActionDelete},
	{"remove", ActionDelete},
	{"login", ActionLogin},
	{"logout", ActionLogout},
	{"upload", ActionUpload},
	{"download", ActionDownload},
	{"assign", ActionAssign},
	{"complete", ActionComplete},
	{"cancel", ActionCancel},
	{"approve", ActionApprove},
	{"reject", ActionReject},
	{"submit", ActionSubmit},
	{"sync", ActionSync},
	{"restore", ActionRestore},
}

type entityRule struct {
	keyword string
	entity  EntityType
}

var entityRules = []entityRule{
	{"user", EntityUser},
	{"role", EntityRole},
	{"satker", EntitySatker},
	{"province", EntityProvince},
	{"provinsi", EntityProvince},
	{"program", EntityProgram},
	{"output", EntityOutput},
	{"kegiatan", EntityKegiatan},
	{"activity", EntityKegiatan},
	{"deputy", EntityDeputy},
	{"deputi", EntityDeputy},
	{"directorate", EntityDirectorate},
	{"direktorat", EntityDirectorate},
	{"tahap", EntityTahap},
	{"stage", EntityTahap},
	{"file", EntityFile},
}

// ClassifyAction infers the action type from an operation name.
// Case-insensitive substring match, first rule wins, unknown names are VIEW.
// Pure and total: always returns a value.
func ClassifyAction(operation string) ActionType {
	op := strings.ToLower(operation)
	for _, rule := range actionRules {
		if strings.Contains(op, rule.keyword) {
			return rule.action
		}
	}
	return ActionView
}

// ClassifyEntity infers the target entity type from a handling component's
// name. Case-insensitive substring match, first rule wins, unknown names are
// SYSTEM. Pure and total: always returns a value.
func ClassifyEntity(handler string) EntityType {
	h := strings.ToLower(handler)
	for _, rule := range entityRules {
		if strings.Contains(h, rule.keyword) {
			return rule.entity
		}
	}
	return EntitySystem
}
