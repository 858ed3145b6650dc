package history

import (
	"time"

	historyDatamodel "github.com/frahmantamala/photoid-studio/internal/core/datamodel/history"
)

// Repository is the data access surface for both history logs. Appends
// and resolutions are transactional: the photo append also bumps the
// owning user's last_take_photo, and a resolution checks the current
// status before writing, all inside one transaction.
type Repository interface {
	AppendPhoto(npk string, photoTime time.Time) (*historyDatamodel.PhotoHistory, error)
	AppendRequest(npk, desc string, requestTime time.Time) (*historyDatamodel.RequestHistory, error)
	GetRequest(id int64) (*historyDatamodel.RequestHistory, error)
	Resolve(id int64, status historyDatamodel.RequestStatus, remark, responder string, responsTime time.Time) (*historyDatamodel.RequestHistory, error)
	ListPhotos(npk string) ([]*historyDatamodel.PhotoHistory, error)
	ListRequests(npk string) ([]*historyDatamodel.RequestHistory, error)
}
