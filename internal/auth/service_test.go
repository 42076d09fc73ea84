package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

func TestAuth(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Auth Module Suite")
}

// Mock UserRepository for testing
type mockUserRepository struct {
	users         map[string]*User  // username -> user
	hashes        map[string]string // username -> password hash
	returnError   bool
	errorToReturn error
}

func newMockUserRepository() *mockUserRepository {
	adminHash, _ := bcrypt.GenerateFromPassword([]byte("adminpass"), bcrypt.DefaultCost)
	docHash, _ := bcrypt.GenerateFromPassword([]byte("docpass"), bcrypt.DefaultCost)
	recHash, _ := bcrypt.GenerateFromPassword([]byte("recpass"), bcrypt.DefaultCost)

	return &mockUserRepository{
		users: map[string]*User{
			"admin":        {ID: 1, Username: "admin", Role: RoleAdmin},
			"doctor":       {ID: 2, Username: "doctor", Role: RoleDoctor},
			"receptionist": {ID: 3, Username: "receptionist", Role: RoleReceptionist},
		},
		hashes: map[string]string{
			"admin":        string(adminHash),
			"doctor":       string(docHash),
			"receptionist": string(recHash),
		},
	}
}

func (m *mockUserRepository) GetCredentialsByUsername(username string) (*User, string, error) {
	if m.returnError {
		return nil, "", m.errorToReturn
	}

	if user, exists := m.users[username]; exists {
		return user, m.hashes[username], nil
	}
	return nil, "", errors.New("user not found")
}

func (m *mockUserRepository) GetByID(userID int64) (*User, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}

	for _, user := range m.users {
		if user.ID == userID {
			return user, nil
		}
	}
	return nil, errors.New("user not found")
}

func (m *mockUserRepository) setError(err error) {
	m.returnError = true
	m.errorToReturn = err
}

var _ = ginkgo.Describe("AuthService", func() {
	var (
		service  *Service
		mockRepo *mockUserRepository
		tokenGen *JWTTokenGenerator
	)

	ginkgo.BeforeEach(func() {
		mockRepo = newMockUserRepository()
		tokenGen = NewJWTTokenGenerator("test-access-secret", "test-refresh-secret", 15*time.Minute, 24*time.Hour)
		service = NewService(mockRepo, tokenGen, bcrypt.DefaultCost)
	})

	ginkgo.Describe("Authenticate", func() {
		ginkgo.Context("when credentials are valid", func() {
			ginkgo.It("should return the principal with its role", func() {
				result, err := service.Authenticate(LoginDTO{Username: "admin", Password: "adminpass"})

				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(result.User.Role).To(gomega.Equal(RoleAdmin))
				gomega.Expect(result.User.Username).To(gomega.Equal("admin"))
				gomega.Expect(result.Tokens.AccessToken).ToNot(gomega.BeEmpty())
				gomega.Expect(result.Tokens.RefreshToken).ToNot(gomega.BeEmpty())
			})

			ginkgo.It("should embed role claims in the access token", func() {
				result, err := service.Authenticate(LoginDTO{Username: "doctor", Password: "docpass"})
				gomega.Expect(err).ToNot(gomega.HaveOccurred())

				claims, err := service.ValidateAccessToken(result.Tokens.AccessToken)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(claims.UserID).To(gomega.Equal("2"))
				gomega.Expect(claims.Username).To(gomega.Equal("doctor"))
				gomega.Expect(claims.Role).To(gomega.Equal(RoleDoctor))
			})
		})

		ginkgo.Context("when credentials are invalid", func() {
			ginkgo.It("should fail for a wrong password", func() {
				result, err := service.Authenticate(LoginDTO{Username: "admin", Password: "wrong"})

				gomega.Expect(err).To(gomega.Equal(ErrInvalidCredentials))
				gomega.Expect(result).To(gomega.BeNil())
			})

			ginkgo.It("should fail for an unknown username", func() {
				result, err := service.Authenticate(LoginDTO{Username: "nobody", Password: "adminpass"})

				gomega.Expect(err).To(gomega.Equal(ErrInvalidCredentials))
				gomega.Expect(result).To(gomega.BeNil())
			})

			ginkgo.It("should make a store error indistinguishable from bad credentials", func() {
				mockRepo.setError(errors.New("connection refused"))

				result, err := service.Authenticate(LoginDTO{Username: "admin", Password: "adminpass"})

				gomega.Expect(err).To(gomega.Equal(ErrInvalidCredentials))
				gomega.Expect(result).To(gomega.BeNil())
			})
		})

		ginkgo.Context("when input is missing", func() {
			ginkgo.It("should reject empty username", func() {
				_, err := service.Authenticate(LoginDTO{Password: "adminpass"})
				gomega.Expect(err).To(gomega.BeAssignableToTypeOf(ValidationError{}))
			})

			ginkgo.It("should reject empty password", func() {
				_, err := service.Authenticate(LoginDTO{Username: "admin"})
				gomega.Expect(err).To(gomega.BeAssignableToTypeOf(ValidationError{}))
			})
		})
	})

	ginkgo.Describe("RefreshTokens", func() {
		ginkgo.It("should issue new tokens carrying the same claims", func() {
			result, err := service.Authenticate(LoginDTO{Username: "receptionist", Password: "recpass"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			tokens, err := service.RefreshTokens(result.Tokens.RefreshToken)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			claims, err := service.ValidateAccessToken(tokens.AccessToken)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(claims.Role).To(gomega.Equal(RoleReceptionist))
		})

		ginkgo.It("should reject garbage tokens", func() {
			_, err := service.RefreshTokens("not-a-token")
			gomega.Expect(err).To(gomega.Equal(ErrInvalidToken))
		})
	})

	ginkgo.Describe("ValidateAccessToken", func() {
		ginkgo.It("should reject a token signed with another secret", func() {
			otherGen := NewJWTTokenGenerator("other-secret", "other-refresh", 15*time.Minute, 24*time.Hour)
			token, err := otherGen.GenerateAccessToken("1", "admin", RoleAdmin)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.ValidateAccessToken(token)
			gomega.Expect(err).To(gomega.Equal(ErrInvalidToken))
		})
	})
})

var _ = ginkgo.Describe("IsAuthorized", func() {
	ginkgo.It("should be false without a principal", func() {
		gomega.Expect(IsAuthorized(nil, RoleAdmin)).To(gomega.BeFalse())
	})

	ginkgo.It("should match the role against the allowed set", func() {
		doctor := &User{ID: 2, Username: "doctor", Role: RoleDoctor}
		gomega.Expect(IsAuthorized(doctor, RoleAdmin, RoleDoctor)).To(gomega.BeTrue())
		gomega.Expect(IsAuthorized(doctor, RoleAdmin)).To(gomega.BeFalse())
		gomega.Expect(IsAuthorized(doctor)).To(gomega.BeFalse())
	})
})
