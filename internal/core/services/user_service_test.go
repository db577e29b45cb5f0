package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/orchardgauge/cidery_production_app/internal/apperrors"
	"github.com/orchardgauge/cidery_production_app/internal/core/domain"
	portssvc "github.com/orchardgauge/cidery_production_app/internal/core/ports/services"
	"github.com/orchardgauge/cidery_production_app/internal/core/services"
	"github.com/orchardgauge/cidery_production_app/internal/dto"
	"github.com/orchardgauge/cidery_production_app/internal/utils"
)

type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserRepository
	mockOrgRepo  *MockOrganizationRepository
	service      portssvc.UserSvcFacade
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockOrgRepo = new(MockOrganizationRepository)
	suite.service = services.NewUserService(suite.mockUserRepo, suite.mockOrgRepo)
}

func adminUser(userID, orgID string) *domain.User {
	return &domain.User{UserID: userID, OrganizationID: orgID, Username: "admin", Role: domain.RoleAdmin}
}

func memberUser(userID, orgID string) *domain.User {
	return &domain.User{UserID: userID, OrganizationID: orgID, Username: "member", Role: domain.RoleMember}
}

func (suite *UserServiceTestSuite) TestCreateUser_Success() {
	ctx := context.Background()
	orgID := "org-1"
	creatorID := "user-admin"
	req := dto.CreateUserRequest{
		Username:       "cellarhand",
		Password:       "orchard-secret",
		Name:           "Cellar Hand",
		OrganizationID: orgID,
	}

	suite.mockUserRepo.On("FindUserByID", ctx, creatorID).Return(adminUser(creatorID, orgID), nil).Once()
	suite.mockOrgRepo.On("FindOrganizationByID", ctx, orgID).Return(&domain.Organization{OrganizationID: orgID, Name: "Gauge Cidery"}, nil).Once()
	suite.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Username == "cellarhand" && u.OrganizationID == orgID && u.Role == domain.RoleMember
	}), mock.AnythingOfType("string")).Return(nil).Once()

	user, err := suite.service.CreateUser(ctx, req, creatorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(user)
	suite.NotEmpty(user.UserID)
	// Role defaults to MEMBER when unset.
	suite.Equal(domain.RoleMember, user.Role)
	suite.Equal(creatorID, user.CreatedBy)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestCreateUser_MemberCannotCreate() {
	ctx := context.Background()
	orgID := "org-1"
	creatorID := "user-member"
	req := dto.CreateUserRequest{Username: "x", Password: "y", OrganizationID: orgID}

	suite.mockUserRepo.On("FindUserByID", ctx, creatorID).Return(memberUser(creatorID, orgID), nil).Once()

	user, err := suite.service.CreateUser(ctx, req, creatorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.Nil(user)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestCreateUser_UnknownRole() {
	ctx := context.Background()
	orgID := "org-1"
	creatorID := "user-admin"
	req := dto.CreateUserRequest{Username: "x", Password: "y", OrganizationID: orgID, Role: "SUPERUSER"}

	suite.mockUserRepo.On("FindUserByID", ctx, creatorID).Return(adminUser(creatorID, orgID), nil).Once()
	suite.mockOrgRepo.On("FindOrganizationByID", ctx, orgID).Return(&domain.Organization{OrganizationID: orgID}, nil).Once()

	user, err := suite.service.CreateUser(ctx, req, creatorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(user)
}

func (suite *UserServiceTestSuite) TestCreateUser_OrganizationNotFound() {
	ctx := context.Background()
	orgID := "org-missing"
	creatorID := "user-admin"
	req := dto.CreateUserRequest{Username: "x", Password: "y", OrganizationID: orgID}

	suite.mockUserRepo.On("FindUserByID", ctx, creatorID).Return(adminUser(creatorID, orgID), nil).Once()
	suite.mockOrgRepo.On("FindOrganizationByID", ctx, orgID).Return(nil, apperrors.ErrNotFound).Once()

	user, err := suite.service.CreateUser(ctx, req, creatorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(user)
}

func (suite *UserServiceTestSuite) TestVerifyCredentials_Success() {
	ctx := context.Background()
	hash, err := utils.HashPassword("orchard-secret")
	suite.Require().NoError(err)

	stored := memberUser("user-1", "org-1")
	suite.mockUserRepo.On("FindUserByUsername", ctx, "member").Return(stored, hash, nil).Once()

	user, err := suite.service.VerifyCredentials(ctx, "member", "orchard-secret")

	suite.Require().NoError(err)
	suite.Equal("user-1", user.UserID)
}

func (suite *UserServiceTestSuite) TestVerifyCredentials_WrongPassword() {
	ctx := context.Background()
	hash, err := utils.HashPassword("orchard-secret")
	suite.Require().NoError(err)

	suite.mockUserRepo.On("FindUserByUsername", ctx, "member").Return(memberUser("user-1", "org-1"), hash, nil).Once()

	user, err := suite.service.VerifyCredentials(ctx, "member", "wrong")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.Nil(user)
}

// Unknown usernames produce the same error as a wrong password so the login
// endpoint cannot be used to enumerate accounts.
func (suite *UserServiceTestSuite) TestVerifyCredentials_UnknownUsername() {
	ctx := context.Background()
	suite.mockUserRepo.On("FindUserByUsername", ctx, "ghost").Return(nil, "", apperrors.ErrNotFound).Once()

	user, err := suite.service.VerifyCredentials(ctx, "ghost", "whatever")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.Nil(user)
}

func (suite *UserServiceTestSuite) TestAuthorizeUserAction_OrganizationMismatch() {
	ctx := context.Background()
	suite.mockUserRepo.On("FindUserByID", ctx, "user-1").Return(adminUser("user-1", "org-1"), nil).Once()

	err := suite.service.AuthorizeUserAction(ctx, "user-1", "org-other", domain.RoleMember)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *UserServiceTestSuite) TestAuthorizeUserAction_RoleHierarchy() {
	ctx := context.Background()

	// A member may perform member-level actions but not admin-level ones.
	suite.mockUserRepo.On("FindUserByID", ctx, "user-member").Return(memberUser("user-member", "org-1"), nil).Twice()
	suite.NoError(suite.service.AuthorizeUserAction(ctx, "user-member", "org-1", domain.RoleMember))
	err := suite.service.AuthorizeUserAction(ctx, "user-member", "org-1", domain.RoleAdmin)
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)

	// An admin satisfies both levels.
	suite.mockUserRepo.On("FindUserByID", ctx, "user-admin").Return(adminUser("user-admin", "org-1"), nil).Twice()
	suite.NoError(suite.service.AuthorizeUserAction(ctx, "user-admin", "org-1", domain.RoleMember))
	suite.NoError(suite.service.AuthorizeUserAction(ctx, "user-admin", "org-1", domain.RoleAdmin))
}

func (suite *UserServiceTestSuite) TestGetUserByID() {
	ctx := context.Background()
	suite.mockUserRepo.On("FindUserByID", ctx, "user-1").Return(memberUser("user-1", "org-1"), nil).Once()

	user, err := suite.service.GetUserByID(ctx, "user-1")

	suite.Require().NoError(err)
	suite.Equal("user-1", user.UserID)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
