package dto

import (
	"time"

	commonDto "anoa.com/placementportal/pkg/dto"
)

type CreateOfferInput struct {
	ApplicationID string     `json:"applicationId" binding:"required,uuid"`
	OfferedCTC    float64    `json:"offeredCtc" binding:"required,gt=0"`
	JoiningDate   *time.Time `json:"joiningDate" binding:"required"`
}

type RespondOfferInput struct {
	Action string `json:"action" binding:"required,oneof=accepted rejected"`
}

type OfferFilter struct {
	commonDto.PageQuery
	Status string `form:"status" binding:"omitempty,oneof=pending accepted rejected"`
}
