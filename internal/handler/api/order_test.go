//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"

	"restaurant-engine/internal/domain/order"
	"restaurant-engine/internal/domain/pricing"
	"restaurant-engine/internal/handler/api"
	resdto "restaurant-engine/internal/handler/dto/response"
	"restaurant-engine/internal/pkg/errs"
	"restaurant-engine/internal/usecase/commands"
	"restaurant-engine/internal/usecase/queries"
	"restaurant-engine/internal/usecase/shared"
	"restaurant-engine/tests/common/builder"
	"restaurant-engine/tests/common/httptest"
	"restaurant-engine/tests/common/testutil"
	commandsmock "restaurant-engine/tests/mock/commands"
	queriesmock "restaurant-engine/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type OrderHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockOrderCommands
	mockQueries  *queriesmock.MockOrderQueries
	handler      *api.OrderHandler
}

func (s *OrderHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockOrderCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockOrderQueries(s.mockCtrl)
	s.handler = api.NewOrderHandler(s.mockCommands, s.mockQueries)

	s.router.POST("/orders", s.handler.Create)
	s.router.GET("/orders", s.handler.List)
	s.router.POST("/orders/consolidate", s.handler.Consolidate)
	s.router.GET("/orders/:id", s.handler.Get)
	s.router.PUT("/orders/:id/items", s.handler.ModifyItems)
	s.router.POST("/orders/:id/state", s.handler.ChangeState)
	s.router.POST("/orders/:id/cancel", s.handler.Cancel)
	s.router.POST("/orders/:id/split", s.handler.Split)
}

func (s *OrderHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestOrderHandlerSuite(t *testing.T) {
	suite.Run(t, new(OrderHandlerTestSuite))
}

func (s *OrderHandlerTestSuite) buildOrder(status order.Status) *order.Order {
	o, err := builder.NewOrderBuilder().BuildInStatus(status)
	s.Require().NoError(err)
	return o
}

// ================================================================================
// TestCreate
// ================================================================================

func (s *OrderHandlerTestSuite) TestCreate() {
	url := "/orders"
	b := builder.NewOrderBuilder()
	reqBody := b.BuildCreateRequestDTO()
	created := s.buildOrder(order.StatusPending)

	s.Run("success: returns 201 Created with totals", func() {
		s.mockCommands.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, in commands.CreateOrderInput) (*commands.CreateOrderResult, error) {
				s.Equal(b.StaffID, in.StaffID)
				s.Equal(*b.TableID, *in.TableID)
				s.Require().Len(in.Items, 1)
				s.Equal(order.TargetProduct, in.Items[0].Target.Kind())
				s.Equal(2, in.Items[0].Quantity)
				return &commands.CreateOrderResult{Order: created}, nil
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, b.StaffID.String())

		var body resdto.CreateOrderResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal(created.ID(), body.Order.ID)
		s.Equal("PENDING", body.Order.Status)
		s.Equal("1000.00", body.Order.Subtotal)
		s.Equal("50.00", body.Order.Discount)
		s.Equal("171.00", body.Order.Tax)
		s.Equal("1121.00", body.Order.Total)
		s.Len(body.Order.Lines, 1)
		s.Nil(body.Table)
	})

	s.Run("error: 400 Bad Request on malformed body", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, []string{"not", "an", "object"}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})

	s.Run("error: malformed items still reach the command with the other violations", func() {
		requestMap := testutil.DtoMap(s.T(), reqBody,
			testutil.Field("items.0.comboId", uuid.NewString()),
			testutil.Field("items.0.quantity", 0),
			testutil.Field("staffId", uuid.Nil.String()),
			testutil.Field("partySize", -3),
		)

		s.mockCommands.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, in commands.CreateOrderInput) (*commands.CreateOrderResult, error) {
				s.Require().Len(in.Items, 1)
				s.Nil(in.Items[0].Target)
				s.Equal(0, in.Items[0].Quantity)
				s.Equal(uuid.Nil, in.StaffID)
				s.Equal(-3, in.PartySize)
				return nil, errs.Validation("order validation failed",
					errs.Violation{Field: "staff_id", Message: "is required"},
					errs.Violation{Field: "party_size", Message: "must be at least 1 for dine-in orders"},
					errs.Violation{Field: "items[0].quantity", Message: "must be between 1 and 99"},
					errs.Violation{Field: "items[0]", Message: "must reference exactly one of product or combo"},
				)
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "")
		httptest.AssertErrorKind(s.T(), rec, http.StatusUnprocessableEntity, string(errs.KindValidation))
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedKind   errs.Kind
		}{
			{
				name:           "validation",
				commandsError:  errs.Validation("order validation failed", errs.Violation{Field: "party_size", Message: "must be at least 1"}),
				expectedStatus: http.StatusUnprocessableEntity,
				expectedKind:   errs.KindValidation,
			},
			{
				name:           "stock exhausted",
				commandsError:  errs.StockExhausted("insufficient stock for hold"),
				expectedStatus: http.StatusConflict,
				expectedKind:   errs.KindStockExhausted,
			},
			{
				name:           "illegal state",
				commandsError:  errs.IllegalState("table 2 is occupied"),
				expectedStatus: http.StatusConflict,
				expectedKind:   errs.KindIllegalState,
			},
			{
				name:           "internal server error",
				commandsError:  errors.New("database error"),
				expectedStatus: http.StatusInternalServerError,
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
				httptest.AssertErrorKind(s.T(), rec, tc.expectedStatus, string(tc.expectedKind))
			})
		}
	})

	s.Run("error: violations are returned as detail", func() {
		s.mockCommands.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).
			Return(nil, errs.Validation("order validation failed",
				errs.Violation{Field: "staff_id", Message: "is required"},
				errs.Violation{Field: "items[0].quantity", Message: "must be between 1 and 99"})).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var body httptest.ErrorBody
		s.Require().NoError(httptest.DecodeResponseBody(s.T(), rec.Body, &body))
		violations, ok := body.Detail["violations"].([]any)
		s.Require().True(ok)
		s.Len(violations, 2)
	})
}

// ================================================================================
// TestGet / TestList
// ================================================================================

func (s *OrderHandlerTestSuite) TestGet() {
	o := s.buildOrder(order.StatusReady)

	s.Run("success: returns 200 OK", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), o.ID()).Return(queries.NewOrderView(o), nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/orders/"+o.ID().String(), nil, "")

		var body resdto.OrderResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(o.Number(), body.Number)
		s.Equal("READY", body.Status)
	})

	s.Run("error: 400 Bad Request on invalid id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/orders/not-a-uuid", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid id")
	})

	s.Run("error: 404 Not Found", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), gomock.Any()).Return(nil, queries.ErrOrderNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/orders/"+uuid.NewString(), nil, "")
		httptest.AssertErrorKind(s.T(), rec, http.StatusNotFound, string(errs.KindNotFound))
	})
}

func (s *OrderHandlerTestSuite) TestList() {
	o := s.buildOrder(order.StatusPending)

	s.Run("success: query parameters become the filter", func() {
		tableID := uuid.New()
		s.mockQueries.EXPECT().List(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, f shared.OrderFilter) ([]*queries.OrderView, error) {
				s.Require().NotNil(f.Status)
				s.Equal(order.StatusPending, *f.Status)
				s.Equal(tableID, *f.TableID)
				s.True(f.Active)
				s.Equal(5, f.Limit)
				return []*queries.OrderView{queries.NewOrderView(o)}, nil
			}).Times(1)

		url := "/orders?status=PENDING&active=true&limit=5&table_id=" + tableID.String()
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")

		var body []resdto.OrderResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Len(body, 1)
	})

	s.Run("error: 400 on malformed filters", func() {
		for _, url := range []string{"/orders?table_id=nope", "/orders?limit=ten"} {
			rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
			httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid")
		}
	})
}

// ================================================================================
// TestChangeState / TestCancel
// ================================================================================

func (s *OrderHandlerTestSuite) TestChangeState() {
	o := s.buildOrder(order.StatusInPreparation)
	url := "/orders/" + o.ID().String() + "/state"

	s.Run("success: forwards target and expected version", func() {
		version := int64(1)
		s.mockCommands.EXPECT().ChangeState(gomock.Any(), o.ID(), order.StatusInPreparation, &version).
			Return(o, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url,
			map[string]any{"status": "IN_PREPARATION", "expectedVersion": 1}, "")

		var body resdto.OrderResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("IN_PREPARATION", body.Status)
	})

	s.Run("error: 400 when status is missing", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})

	s.Run("error: 409 on illegal transition and stale version", func() {
		for _, err := range []error{
			errs.StateTransition("PENDING", "READY"),
			errs.ConcurrentModification("order ORD-20250314-0001 is at version 3, expected 2"),
			errs.ReservationExpired("reservation expired"),
		} {
			s.mockCommands.EXPECT().ChangeState(gomock.Any(), o.ID(), order.StatusReady, nil).Return(nil, err).Times(1)

			rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"status": "READY"}, "")
			httptest.AssertErrorKind(s.T(), rec, http.StatusConflict, string(errs.KindOf(err)))
		}
	})
}

func (s *OrderHandlerTestSuite) TestCancel() {
	o := s.buildOrder(order.StatusCancelled)
	url := "/orders/" + o.ID().String() + "/cancel"

	s.Run("success: returns the refund", func() {
		s.mockCommands.EXPECT().CancelOrder(gomock.Any(), o.ID(), "guest left").
			Return(&commands.CancelResult{Order: o, Refund: pricing.MustMoney("1121")}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"reason": "guest left"}, "")

		var body resdto.CancelOrderResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("1121.00", body.Refund)
		s.Equal("CANCELLED", body.Order.Status)
	})

	s.Run("success: body is optional", func() {
		s.mockCommands.EXPECT().CancelOrder(gomock.Any(), o.ID(), "").
			Return(&commands.CancelResult{Order: o, Refund: pricing.Zero}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "")

		var body resdto.CancelOrderResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("0.00", body.Refund)
	})
}

// ================================================================================
// TestModifyItems
// ================================================================================

func (s *OrderHandlerTestSuite) TestModifyItems() {
	o := s.buildOrder(order.StatusPending)
	url := "/orders/" + o.ID().String() + "/items"
	comboID := uuid.New()

	s.Run("success: combo items are forwarded", func() {
		s.mockCommands.EXPECT().ModifyItems(gomock.Any(), o.ID(), gomock.Any()).
			DoAndReturn(func(_ any, _ uuid.UUID, items []commands.ItemInput) (*order.Order, error) {
				s.Require().Len(items, 1)
				s.Equal(order.ComboTarget{ComboID: comboID}, items[0].Target)
				return o, nil
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url,
			map[string]any{"items": []map[string]any{{"comboId": comboID.String(), "quantity": 2}}}, "")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: 409 outside the modification window", func() {
		s.mockCommands.EXPECT().ModifyItems(gomock.Any(), o.ID(), gomock.Any()).
			Return(nil, errs.IllegalState("modification window closed")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url,
			map[string]any{"items": []map[string]any{{"productId": uuid.NewString(), "quantity": 1}}}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "modification window closed")
	})
}

// ================================================================================
// TestSplit / TestConsolidate
// ================================================================================

func (s *OrderHandlerTestSuite) TestSplit() {
	src := s.buildOrder(order.StatusInvoiced)
	part := s.buildOrder(order.StatusDelivered)
	url := "/orders/" + src.ID().String() + "/split"
	lineID := src.Lines()[0].ID()

	s.Run("success: returns 201 Created with parts", func() {
		expected := [][]commands.SplitSelection{
			{{LineID: lineID, Quantity: 1}},
			{{LineID: lineID, Quantity: 1}},
		}
		s.mockCommands.EXPECT().SplitOrder(gomock.Any(), src.ID(), expected).
			Return(&commands.SplitResult{Source: src, Parts: []*order.Order{part, part}}, nil).Times(1)

		reqBody := map[string]any{"parts": []any{
			[]map[string]any{{"lineId": lineID.String(), "quantity": 1}},
			[]map[string]any{{"lineId": lineID.String(), "quantity": 1}},
		}}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var body resdto.SplitOrderResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal("INVOICED", body.Source.Status)
		s.Len(body.Parts, 2)
	})

	s.Run("error: 400 when parts are missing", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})
}

func (s *OrderHandlerTestSuite) TestConsolidate() {
	merged := s.buildOrder(order.StatusDelivered)
	a, b := s.buildOrder(order.StatusInvoiced), s.buildOrder(order.StatusInvoiced)

	s.Run("success: returns 201 Created", func() {
		s.mockCommands.EXPECT().ConsolidateOrders(gomock.Any(), []uuid.UUID{a.ID(), b.ID()}, nil).
			Return(&commands.ConsolidateResult{Order: merged, Sources: []*order.Order{a, b}}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/orders/consolidate",
			map[string]any{"orderIds": []string{a.ID().String(), b.ID().String()}}, "")

		var body resdto.ConsolidateOrdersResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal(merged.ID(), body.Order.ID)
		s.Len(body.Sources, 2)
	})

	s.Run("error: 422 on invalid consolidation", func() {
		s.mockCommands.EXPECT().ConsolidateOrders(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errs.Validation("invalid consolidation", errs.Violation{Field: "order_ids", Message: "at least two distinct orders are required"})).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/orders/consolidate",
			map[string]any{"orderIds": []string{a.ID().String()}}, "")
		httptest.AssertErrorKind(s.T(), rec, http.StatusUnprocessableEntity, string(errs.KindValidation))
	})
}
