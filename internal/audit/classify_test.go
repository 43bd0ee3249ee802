package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyAction(t *testing.T) {
	tests := []struct {
		operation string
		want      ActionType
	}{
		{"createUser", ActionCreate},
		{"SaveKegiatan", ActionCreate},
		{"addMember", ActionCreate},
		{"updateUserProfile", ActionUpdate},
		{"editSatker", ActionUpdate},
		{"patchOutput", ActionUpdate},
		{"deleteKegiatanById", ActionDelete},
		{"removeRole", ActionDelete},
		{"loginUser", ActionLogin},
		{"logoutUser", ActionLogout},
		{"uploadLaporan", ActionUpload},
		{"downloadDokumen", ActionDownload},
		{"assignSatker", ActionAssign},
		{"completeSubstep", ActionComplete},
		{"cancelKegiatan", ActionCancel},
		{"approveTahap", ActionApprove},
		{"rejectTahap", ActionReject},
		{"submitLaporan", ActionSubmit},
		{"syncProvinsi", ActionSync},
		{"restoreKegiatan", ActionRestore},
		// No keyword match falls back to VIEW.
		{"getKegiatanById", ActionView},
		{"frobnicate", ActionView},
		{"", ActionView},
	}
	for _, tt := range tests {
		t.Run(tt.operation, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyAction(tt.operation))
		})
	}
}

func TestClassifyAction_CaseInsensitive(t *testing.T) {
	assert.Equal(t, ClassifyAction("DELETEKEGIATAN"), ClassifyAction("deleteKegiatan"))
	assert.Equal(t, ActionCreate, ClassifyAction("CreateSatker"))
}

func TestClassifyAction_FirstMatchWins(t *testing.T) {
	// "createOrUpdate" carries both keywords; table order makes it CREATE.
	assert.Equal(t, ActionCreate, ClassifyAction("createOrUpdateKegiatan"))
}

func TestClassifyEntity(t *testing.T) {
	tests := []struct {
		handler string
		want    EntityType
	}{
		{"UserHandler", EntityUser},
		{"RoleHandler", EntityRole},
		{"SatkerController", EntitySatker},
		{"ProvinceHandler", EntityProvince},
		{"ProgramHandler", EntityProgram},
		{"OutputHandler", EntityOutput},
		{"KegiatanController", EntityKegiatan},
		{"ActivityHandler", EntityKegiatan},
		{"DeputyHandler", EntityDeputy},
		{"DirectorateHandler", EntityDirectorate},
		{"TahapHandler", EntityTahap},
		{"StageHandler", EntityTahap},
		{"FileHandler", EntityFile},
		// No keyword match falls back to SYSTEM.
		{"WidgetController", EntitySystem},
		{"", EntitySystem},
	}
	for _, tt := range tests {
		t.Run(tt.handler, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyEntity(tt.handler))
		})
	}
}

func TestClassify_Deterministic(t *testing.T) {
	for range 100 {
		assert.Equal(t, ActionUpdate, ClassifyAction("updateUserProfile"))
		assert.Equal(t, EntitySatker, ClassifyEntity("SatkerController"))
	}
}
