package buddy

// Relationship is the mutually exclusive, exhaustive state that decides
// which action the buddy row offers.
type Relationship int

const (
	RelationNone Relationship = iota
	RelationInvited
	RelationFriends
)

func (r Relationship) Label() string {
	switch r {
	case RelationFriends:
		return "Friends"
	case RelationInvited:
		return "Invited"
	default:
		return "Add Friend"
	}
}

// Candidate is one row in the buddy search/nearby list.
type Candidate struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Username        string `json:"username"`
	ProfileImageURL string `json:"profile_image_url"`
	RequestSent     bool   `json:"request_sent"`
	Accepted        bool   `json:"accepted"`
}

// Relationship derives the action state: accepted wins over a pending
// request, and both win over nothing.
func (c Candidate) Relationship() Relationship {
	switch {
	case c.Accepted:
		return RelationFriends
	case c.RequestSent:
		return RelationInvited
	default:
		return RelationNone
	}
}

// FriendRequest is an incoming request on the friends list.
type FriendRequest struct {
	RequestID int64  `json:"request_id"`
	FromID    int64  `json:"from_id"`
	FromName  string `json:"from_name"`
	Accepted  bool   `json:"accepted"`
}
