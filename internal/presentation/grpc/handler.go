package grpc

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Romeo-CEO/intellifin-loan-management-system-sub008/internal/application/dto"
	"github.com/Romeo-CEO/intellifin-loan-management-system-sub008/internal/application/usecase"
	"github.com/Romeo-CEO/intellifin-loan-management-system-sub008/internal/domain/port"
	"github.com/Romeo-CEO/intellifin-loan-management-system-sub008/pkg/auth"
)

// requireRole checks that the caller has at least one of the given roles.
func requireRole(ctx context.Context, roles ...string) error {
	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		return status.Error(codes.Unauthenticated, "authentication required")
	}
	for _, role := range roles {
		if claims.HasRole(role) {
			return nil
		}
	}
	return status.Error(codes.PermissionDenied, "insufficient permissions")
}

// actorFromContext identifies the caller for audit trails.
func actorFromContext(ctx context.Context) (string, error) {
	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "authentication required")
	}
	return claims.UserID.String(), nil
}

// toStatusError maps domain errors onto gRPC status codes.
func toStatusError(err error) error {
	switch {
	case errors.Is(err, port.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, port.ErrScheduleNotFound),
		errors.Is(err, port.ErrTransactionNotFound),
		errors.Is(err, port.ErrNoClassification):
		return status.Error(codes.NotFound, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

// Compile-time assertion that ServicingHandler implements the service interface.
var _ LoanServicingServiceServer = (*ServicingHandler)(nil)

// ServicingHandler implements the gRPC LoanServicingServiceServer interface.
type ServicingHandler struct {
	UnimplementedLoanServicingServiceServer
	generateSchedule *usecase.GenerateScheduleUseCase
	getSchedule      *usecase.GetScheduleUseCase
	applyPayment     *usecase.ApplyPaymentUseCase
	paymentHistory   *usecase.GetPaymentHistoryUseCase
	classifyLoan     *usecase.ClassifyLoanUseCase
	classifyAll      *usecase.ClassifyAllLoansUseCase
	classHistory     *usecase.GetClassificationHistoryUseCase
}

// NewServicingHandler creates a handler with all use-case dependencies.
func NewServicingHandler(
	generateSchedule *usecase.GenerateScheduleUseCase,
	getSchedule *usecase.GetScheduleUseCase,
	applyPayment *usecase.ApplyPaymentUseCase,
	paymentHistory *usecase.GetPaymentHistoryUseCase,
	classifyLoan *usecase.ClassifyLoanUseCase,
	classifyAll *usecase.ClassifyAllLoansUseCase,
	classHistory *usecase.GetClassificationHistoryUseCase,
) *ServicingHandler {
	return &ServicingHandler{
		generateSchedule: generateSchedule,
		getSchedule:      getSchedule,
		applyPayment:     applyPayment,
		paymentHistory:   paymentHistory,
		classifyLoan:     classifyLoan,
		classifyAll:      classifyAll,
		classHistory:     classHistory,
	}
}

// Proto-aligned request/response message types. Monetary amounts travel as
// decimal strings; dates as RFC 3339 timestamps.

type GenerateScheduleRequest struct {
	LoanID           string
	ClientID         string
	ProductCode      string
	Principal        string
	AnnualRate       string
	TermMonths       int32
	FirstPaymentDate string
	CorrelationID    string
}

type InstallmentMsg struct {
	Number           int32
	DueDate          string
	PrincipalDue     string
	InterestDue      string
	TotalDue         string
	PrincipalPaid    string
	InterestPaid     string
	TotalPaid        string
	PrincipalBalance string
	Status           string
	DaysPastDue      int32
}

type ScheduleMsg struct {
	ScheduleID       string
	LoanID           string
	ClientID         string
	ProductCode      string
	Principal        string
	AnnualRate       string
	TermMonths       int32
	FirstPaymentDate string
	MaturityDate     string
	Installments     []*InstallmentMsg
}

type GenerateScheduleResponse struct {
	Schedule       *ScheduleMsg
	AlreadyExisted bool
}

type GetScheduleRequest struct {
	LoanID string
}

type GetScheduleResponse struct {
	Schedule *ScheduleMsg
}

type ApplyPaymentRequest struct {
	LoanID               string
	ClientID             string
	TransactionReference string
	Method               string
	Source               string
	Amount               string
	TransactionDate      string
	ExternalReference    string
	Notes                string
	CorrelationID        string
}

type ApplyPaymentResponse struct {
	TransactionID        string
	LoanID               string
	TransactionReference string
	Status               string
	Amount               string
	PrincipalPortion     string
	InterestPortion      string
	OutstandingBalance   string
	ReconciliationTaskID string
	Duplicate            bool
}

type GetPaymentHistoryRequest struct {
	LoanID string
}

type PaymentMsg struct {
	TransactionID        string
	TransactionReference string
	Method               string
	Source               string
	Amount               string
	PrincipalPortion     string
	InterestPortion      string
	TransactionDate      string
	ReceivedAt           string
	Status               string
	Reconciled           bool
}

type GetPaymentHistoryResponse struct {
	LoanID   string
	Payments []*PaymentMsg
}

type ClassifyLoanRequest struct {
	LoanID        string
	CorrelationID string
}

type ClassifyLoanResponse struct {
	LoanID             string
	Classification     string
	Previous           string
	Changed            bool
	DaysPastDue        int32
	OutstandingBalance string
	ProvisionRate      string
	ProvisionAmount    string
	NonAccrual         bool
}

type ClassifyAllLoansRequest struct {
	CorrelationID string
}

type LoanFailureMsg struct {
	LoanID string
	Error  string
}

type ClassifyAllLoansResponse struct {
	Visited    int32
	Classified int32
	Changed    int32
	Failures   []*LoanFailureMsg
}

type GetClassificationHistoryRequest struct {
	LoanID string
}

type ClassificationRecordMsg struct {
	RecordID           string
	Previous           string
	Current            string
	DaysPastDue        int32
	OutstandingBalance string
	ProvisionRate      string
	ProvisionAmount    string
	NonAccrual         bool
	ClassifiedAt       string
	ClassifiedBy       string
	Reason             string
}

type GetClassificationHistoryResponse struct {
	LoanID  string
	Records []*ClassificationRecordMsg
}

// GenerateSchedule builds the amortization schedule for a disbursed loan.
func (h *ServicingHandler) GenerateSchedule(ctx context.Context, req *GenerateScheduleRequest) (*GenerateScheduleResponse, error) {
	if err := requireRole(ctx, auth.RoleAdmin, auth.RoleLoanOfficer, auth.RoleSystem); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	principal, err := decimal.NewFromString(req.Principal)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid principal: %v", err)
	}
	annualRate, err := decimal.NewFromString(req.AnnualRate)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid annual_rate: %v", err)
	}
	firstPaymentDate, err := parseDate(req.FirstPaymentDate)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid first_payment_date: %v", err)
	}

	result, err := h.generateSchedule.Execute(ctx, dto.GenerateScheduleRequest{
		LoanID:           req.LoanID,
		ClientID:         req.ClientID,
		ProductCode:      req.ProductCode,
		Principal:        principal,
		AnnualRate:       annualRate,
		TermMonths:       int(req.TermMonths),
		FirstPaymentDate: firstPaymentDate,
		Actor:            actor,
		CorrelationID:    req.CorrelationID,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &GenerateScheduleResponse{
		Schedule:       toScheduleMsg(result),
		AlreadyExisted: result.AlreadyExisted,
	}, nil
}

// GetSchedule retrieves a loan's schedule with all installments.
func (h *ServicingHandler) GetSchedule(ctx context.Context, req *GetScheduleRequest) (*GetScheduleResponse, error) {
	if err := requireRole(ctx, auth.RoleAdmin, auth.RoleLoanOfficer, auth.RoleCollections, auth.RoleAuditor, auth.RoleSystem); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	result, err := h.getSchedule.Execute(ctx, dto.GetScheduleRequest{LoanID: req.LoanID})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &GetScheduleResponse{Schedule: toScheduleMsg(result)}, nil
}

// ApplyPayment allocates one received payment against a loan.
func (h *ServicingHandler) ApplyPayment(ctx context.Context, req *ApplyPaymentRequest) (*ApplyPaymentResponse, error) {
	if err := requireRole(ctx, auth.RoleAdmin, auth.RoleLoanOfficer, auth.RoleSystem); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid amount: %v", err)
	}
	transactionDate, err := parseDate(req.TransactionDate)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid transaction_date: %v", err)
	}

	result, err := h.applyPayment.Execute(ctx, dto.ApplyPaymentRequest{
		LoanID:               req.LoanID,
		ClientID:             req.ClientID,
		TransactionReference: req.TransactionReference,
		Method:               req.Method,
		Source:               req.Source,
		Amount:               amount,
		TransactionDate:      transactionDate,
		ExternalReference:    req.ExternalReference,
		Notes:                req.Notes,
		Actor:                actor,
		CorrelationID:        req.CorrelationID,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &ApplyPaymentResponse{
		TransactionID:        result.TransactionID,
		LoanID:               result.LoanID,
		TransactionReference: result.TransactionReference,
		Status:               result.Status,
		Amount:               result.Amount.String(),
		PrincipalPortion:     result.PrincipalPortion.String(),
		InterestPortion:      result.InterestPortion.String(),
		OutstandingBalance:   result.OutstandingBalance.String(),
		ReconciliationTaskID: result.ReconciliationTaskID,
		Duplicate:            result.Duplicate,
	}, nil
}

// GetPaymentHistory returns a loan's recorded payments, newest first.
func (h *ServicingHandler) GetPaymentHistory(ctx context.Context, req *GetPaymentHistoryRequest) (*GetPaymentHistoryResponse, error) {
	if err := requireRole(ctx, auth.RoleAdmin, auth.RoleLoanOfficer, auth.RoleCollections, auth.RoleAuditor, auth.RoleSystem); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	result, err := h.paymentHistory.Execute(ctx, dto.GetPaymentHistoryRequest{LoanID: req.LoanID})
	if err != nil {
		return nil, toStatusError(err)
	}

	payments := make([]*PaymentMsg, 0, len(result.Payments))
	for _, p := range result.Payments {
		payments = append(payments, &PaymentMsg{
			TransactionID:        p.TransactionID,
			TransactionReference: p.TransactionReference,
			Method:               p.Method,
			Source:               p.Source,
			Amount:               p.Amount.String(),
			PrincipalPortion:     p.PrincipalPortion.String(),
			InterestPortion:      p.InterestPortion.String(),
			TransactionDate:      p.TransactionDate.Format(time.RFC3339),
			ReceivedAt:           p.ReceivedAt.Format(time.RFC3339),
			Status:               p.Status,
			Reconciled:           p.Reconciled,
		})
	}
	return &GetPaymentHistoryResponse{LoanID: result.LoanID, Payments: payments}, nil
}

// ClassifyLoan evaluates one loan's delinquency bucket on demand.
func (h *ServicingHandler) ClassifyLoan(ctx context.Context, req *ClassifyLoanRequest) (*ClassifyLoanResponse, error) {
	if err := requireRole(ctx, auth.RoleAdmin, auth.RoleCollections, auth.RoleSystem); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	result, err := h.classifyLoan.Execute(ctx, dto.ClassifyLoanRequest{
		LoanID:        req.LoanID,
		Actor:         actor,
		CorrelationID: req.CorrelationID,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &ClassifyLoanResponse{
		LoanID:             result.LoanID,
		Classification:     result.Classification,
		Previous:           result.Previous,
		Changed:            result.Changed,
		DaysPastDue:        int32(result.DaysPastDue),
		OutstandingBalance: result.OutstandingBalance.String(),
		ProvisionRate:      result.ProvisionRate.String(),
		ProvisionAmount:    result.ProvisionAmount.String(),
		NonAccrual:         result.NonAccrual,
	}, nil
}

// ClassifyAllLoans runs the classification pass over the whole loan book.
func (h *ServicingHandler) ClassifyAllLoans(ctx context.Context, req *ClassifyAllLoansRequest) (*ClassifyAllLoansResponse, error) {
	if err := requireRole(ctx, auth.RoleAdmin, auth.RoleSystem); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	result, err := h.classifyAll.Execute(ctx, dto.ClassifyAllLoansRequest{
		Actor:         actor,
		CorrelationID: req.CorrelationID,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	failures := make([]*LoanFailureMsg, 0, len(result.Failures))
	for _, f := range result.Failures {
		failures = append(failures, &LoanFailureMsg{LoanID: f.LoanID, Error: f.Error})
	}
	return &ClassifyAllLoansResponse{
		Visited:    int32(result.Visited),
		Classified: int32(result.Classified),
		Changed:    int32(result.Changed),
		Failures:   failures,
	}, nil
}

// GetClassificationHistory returns a loan's classification ledger, newest first.
func (h *ServicingHandler) GetClassificationHistory(ctx context.Context, req *GetClassificationHistoryRequest) (*GetClassificationHistoryResponse, error) {
	if err := requireRole(ctx, auth.RoleAdmin, auth.RoleCollections, auth.RoleAuditor, auth.RoleSystem); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	result, err := h.classHistory.Execute(ctx, dto.GetClassificationHistoryRequest{LoanID: req.LoanID})
	if err != nil {
		return nil, toStatusError(err)
	}

	records := make([]*ClassificationRecordMsg, 0, len(result.Records))
	for _, r := range result.Records {
		records = append(records, &ClassificationRecordMsg{
			RecordID:           r.RecordID,
			Previous:           r.Previous,
			Current:            r.Current,
			DaysPastDue:        int32(r.DaysPastDue),
			OutstandingBalance: r.OutstandingBalance.String(),
			ProvisionRate:      r.ProvisionRate.String(),
			ProvisionAmount:    r.ProvisionAmount.String(),
			NonAccrual:         r.NonAccrual,
			ClassifiedAt:       r.ClassifiedAt.Format(time.RFC3339),
			ClassifiedBy:       r.ClassifiedBy,
			Reason:             r.Reason,
		})
	}
	return &GetClassificationHistoryResponse{LoanID: result.LoanID, Records: records}, nil
}

// parseDate accepts RFC 3339 timestamps and bare dates.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func toScheduleMsg(s dto.ScheduleResponse) *ScheduleMsg {
	installments := make([]*InstallmentMsg, 0, len(s.Installments))
	for _, inst := range s.Installments {
		installments = append(installments, &InstallmentMsg{
			Number:           int32(inst.Number),
			DueDate:          inst.DueDate.Format("2006-01-02"),
			PrincipalDue:     inst.PrincipalDue.String(),
			InterestDue:      inst.InterestDue.String(),
			TotalDue:         inst.TotalDue.String(),
			PrincipalPaid:    inst.PrincipalPaid.String(),
			InterestPaid:     inst.InterestPaid.String(),
			TotalPaid:        inst.TotalPaid.String(),
			PrincipalBalance: inst.PrincipalBalance.String(),
			Status:           inst.Status,
			DaysPastDue:      int32(inst.DaysPastDue),
		})
	}
	return &ScheduleMsg{
		ScheduleID:       s.ScheduleID,
		LoanID:           s.LoanID,
		ClientID:         s.ClientID,
		ProductCode:      s.ProductCode,
		Principal:        s.Principal.String(),
		AnnualRate:       s.AnnualRate.String(),
		TermMonths:       int32(s.TermMonths),
		FirstPaymentDate: s.FirstPaymentDate.Format("2006-01-02"),
		MaturityDate:     s.MaturityDate.Format("2006-01-02"),
		Installments:     installments,
	}
}
