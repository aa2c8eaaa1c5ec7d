package constants

const (
	BaseUrl = "https://skill-test.similater.website"

	API_LOGIN          = "%s/api/v1/user/login"
	API_PROPERTY_LIST  = "%s/api/v1/property/list"
	WebsiteScheme      = "http://"
	ContentTypeJSON    = "application/json"
	SessionExpiredFlag = "expired"
)
