package httpx

import (
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/thepivo/pivoadmin/internal/common/logtrace"
)

// SendJsonRsp marshals msg and writes it with the given status code.
func SendJsonRsp(r *http.Request, w http.ResponseWriter, statusCode int, msg any) {
	b, err := json.Marshal(msg)
	if err != nil {
		log.Ctx(r.Context()).Err(err).Msg("unable to marshal json")
		ErrApplicationError("Id: " + logtrace.RequestIDFromContext(r.Context())).Send(w)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(b)
}
