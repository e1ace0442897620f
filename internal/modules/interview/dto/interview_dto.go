package dto

import (
	"time"

	commonDto "anoa.com/placementportal/pkg/dto"
)

type ScheduleInterviewInput struct {
	ApplicationID string     `json:"applicationId" binding:"required,uuid"`
	ScheduledAt   *time.Time `json:"scheduledAt" binding:"required,future"`
	Mode          string     `json:"mode" binding:"required,oneof=online offline"`
	Round         *int       `json:"round" binding:"omitempty,min=1,max=20"`
	Location      string     `json:"location" binding:"required_if=Mode offline,max=255"`
	MeetingLink   string     `json:"meetingLink" binding:"omitempty,url,max=2048"`
}

type UpdateInterviewInput struct {
	Status      *string    `json:"status" binding:"omitempty,oneof=scheduled completed cancelled"`
	Result      *string    `json:"result" binding:"omitempty,oneof=pending passed failed"`
	ScheduledAt *time.Time `json:"scheduledAt" binding:"omitempty,future"`
	Location    *string    `json:"location" binding:"omitempty,max=255"`
	MeetingLink *string    `json:"meetingLink" binding:"omitempty,url,max=2048"`
}

type InterviewFilter struct {
	commonDto.PageQuery
	Status string `form:"status" binding:"omitempty,oneof=scheduled completed cancelled"`
}
