package main

import (
	"bookings/src/middlewares"
	"bookings/src/services"
	"bookings/src/types"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func abortWithError(ctx *gin.Context, op string, err error) {
	e := types.AsError(err)
	log.Printf("[%s] %s error: %s\n", op, e.Kind, e.Error())
	ctx.AbortWithStatusJSON(e.Status(), gin.H{"success": false, "error": e.Message})
}

// bindCreateRequest decodes the body and fills TotalPrice from the raw JSON.
func bindCreateRequest(ctx *gin.Context) (types.CreateReservationRequestBody, error) {
	var body types.CreateReservationRequestBody
	if err := ctx.ShouldBindBodyWith(&body, binding.JSON); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return body, types.NewError(types.ERR_VALIDATION, "invalid request body", err)
		}
		// report the same message the service would for this body
		if verr := services.ValidateCreateRequest(body); verr != nil {
			return body, verr
		}
		return body, types.NewError(types.ERR_VALIDATION, "invalid request body", err)
	}
	if raw, ok := ctx.Get(gin.BodyBytesKey); ok {
		if b, ok := raw.([]byte); ok {
			body.TotalPrice = services.TotalPriceFromJSON(b)
		}
	}
	return body, nil
}

func reservationHandlers(g *gin.RouterGroup, svc *services.ReservationService) *gin.RouterGroup {
	g.
		GET("/reservations", func(ctx *gin.Context) {
			var query types.ReservationQueryParams
			if err := ctx.ShouldBindQuery(&query); err != nil {
				abortWithError(ctx, "ListReservations", types.NewError(types.ERR_VALIDATION, "invalid query", err))
				return
			}
			uid := ctx.GetString(middlewares.UID_KEY)
			list, err := svc.List(ctx.Request.Context(), uid, query.ProviderID)
			if err != nil {
				abortWithError(ctx, "ListReservations", err)
				return
			}
			data := make([]types.APIResponseReservation, 0, len(list))
			for _, r := range list {
				data = append(data, r.ToAPIResponse())
			}
			message := "No reservations found"
			if len(data) > 0 {
				message = fmt.Sprintf("Found %d reservations", len(data))
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "reservations": data, "message": message})
		}).
		POST("/reservations", func(ctx *gin.Context) {
			body, err := bindCreateRequest(ctx)
			if err != nil {
				abortWithError(ctx, "CreateReservation", err)
				return
			}
			uid := ctx.GetString(middlewares.UID_KEY)
			r, err := svc.Create(ctx.Request.Context(), uid, body)
			if err != nil {
				abortWithError(ctx, "CreateReservation", err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{
				"success":       true,
				"reservationId": r.ID,
				"message":       "Reservation created successfully",
			})
		})
	return g
}
