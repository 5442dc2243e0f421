package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sscprep/mocktest-backend/internal/response"
	"github.com/sscprep/mocktest-backend/internal/service"
)

// BankHandler serves question bank and test catalog listings.
type BankHandler struct {
	testService *service.TestService
}

// NewBankHandler creates a new BankHandler.
func NewBankHandler(testService *service.TestService) *BankHandler {
	return &BankHandler{testService: testService}
}

// GetSubjects godoc
// GET /api/v1/bank/subjects
// Returns all categories with question counts and availability-filtered
// size menus.
func (h *BankHandler) GetSubjects(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{
		"total_questions": h.testService.TotalQuestions(),
		"subjects":        h.testService.Subjects(),
	})
}

// GetMockSets godoc
// GET /api/v1/tests/mocks
// Returns metadata for the fixed mock sets plus the quick-practice remainder.
func (h *BankHandler) GetMockSets(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{
		"mock_sets":      h.testService.MockSets(),
		"quick_practice": h.testService.QuickPractice(),
	})
}
