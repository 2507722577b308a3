package entity

import "time"

// Project 安装项目
type Project struct {
	ID         string    `json:"id" gorm:"primaryKey;size:32"`
	Code       string    `json:"code" gorm:"size:32;uniqueIndex;not null"`
	Name       string    `json:"name" gorm:"size:200;not null"`
	ClientName string    `json:"client_name" gorm:"size:200"`
	Address    string    `json:"address" gorm:"size:500"`
	Status     string    `json:"status" gorm:"size:20;default:active"` // active/on_hold/completed/archived
	CreatedBy  string    `json:"created_by" gorm:"size:32"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// 关联
	Milestones []ProjectMilestone `json:"milestones,omitempty" gorm:"foreignKey:ProjectID"`
}

func (Project) TableName() string {
	return "projects"
}

// 项目状态
const (
	ProjectStatusActive    = "active"
	ProjectStatusOnHold    = "on_hold"
	ProjectStatusCompleted = "completed"
	ProjectStatusArchived  = "archived"
)

// 里程碑阶段（设备按阶段分批下单）
const (
	MilestoneStagePrewire = "prewire_prep"
	MilestoneStageTrim    = "trim_prep"
)

// ValidMilestoneStage 阶段合法性检查
func ValidMilestoneStage(stage string) bool {
	return stage == MilestoneStagePrewire || stage == MilestoneStageTrim
}

// ProjectMilestone 项目里程碑，每个项目每个阶段最多一条
type ProjectMilestone struct {
	ID         string     `json:"id" gorm:"primaryKey;size:32"`
	ProjectID  string     `json:"project_id" gorm:"size:32;not null;uniqueIndex:idx_project_stage"`
	Stage      string     `json:"stage" gorm:"size:20;not null;uniqueIndex:idx_project_stage"`
	TargetDate *time.Time `json:"target_date"`
	ActualDate *time.Time `json:"actual_date"`
	Notes      string     `json:"notes" gorm:"size:500"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (ProjectMilestone) TableName() string {
	return "project_milestones"
}
