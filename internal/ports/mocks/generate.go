//go:generate mockgen -source=../session.go               -destination=./mock_session.go               -package=mocks
//go:generate mockgen -source=../run_report_repository.go -destination=./mock_run_report_repository.go -package=mocks
//go:generate mockgen -source=../run_report_cache.go      -destination=./mock_run_report_cache.go      -package=mocks
//go:generate mockgen -source=../run_report_reader.go     -destination=./mock_run_report_reader.go     -package=mocks
//go:generate mockgen -source=../run_status.go            -destination=./mock_run_status.go            -package=mocks
//go:generate mockgen -source=../logger.go                -destination=./mock_logger.go                -package=mocks

package mocks
