package constants

// Base paths
const (
	APIBasePath = "/api"
	HealthPath  = "/health"
	VersionPath = "/version"
	UploadsPath = "/uploads"
)

// User and auth routes, relative to UsersBasePath
const (
	UsersBasePath          = "/api/users"
	UserRegisterPath       = "/register"
	UserLoginPath          = "/login"
	UserLogoutPath         = "/logout"
	UserLoginStatusPath    = "/loggedin"
	UserProfilePath        = "/getuser"
	UserUpdatePath         = "/updateuser"
	UserChangePasswordPath = "/changepassword"
	UserForgotPasswordPath = "/forgotpassword"
	UserResetPasswordPath  = "/resetpassword/{resetToken}"
)

// Product and contact routes
const (
	ProductsBasePath  = "/api/products"
	ProductDetailPath = "/{id}"
	ContactBasePath   = "/api/contactus"
)

// URL parameters
const (
	ParamID         = "id"
	ParamResetToken = "resetToken"
)

// Multipart form fields
const (
	FormFieldImage = "image"
)
