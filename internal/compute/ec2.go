package compute

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ec2"
	"github.com/aws/aws-sdk-go/service/ec2/ec2iface"
)

var (
	ErrNoInstance = errors.New("describe response contains no instance")
	ErrNoState    = errors.New("describe response contains no instance state")
)

// EC2 implements Compute against the EC2 API. SDK errors are returned as-is
// so their text reaches the caller unchanged.
type EC2 struct {
	api ec2iface.EC2API
}

var _ Compute = (*EC2)(nil)

func NewEC2(region string) (*EC2, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, fmt.Errorf("create aws session: %w", err)
	}
	return NewEC2WithAPI(ec2.New(sess)), nil
}

func NewEC2WithAPI(api ec2iface.EC2API) *EC2 {
	return &EC2{api: api}
}

func (c *EC2) StartInstance(ctx context.Context, instanceID string) error {
	_, err := c.api.StartInstancesWithContext(ctx, &ec2.StartInstancesInput{
		InstanceIds: aws.StringSlice([]string{instanceID}),
	})
	return err
}

func (c *EC2) StopInstance(ctx context.Context, instanceID string) error {
	_, err := c.api.StopInstancesWithContext(ctx, &ec2.StopInstancesInput{
		InstanceIds: aws.StringSlice([]string{instanceID}),
	})
	return err
}

func (c *EC2) InstanceState(ctx context.Context, instanceID string) (string, error) {
	out, err := c.api.DescribeInstancesWithContext(ctx, &ec2.DescribeInstancesInput{
		InstanceIds: aws.StringSlice([]string{instanceID}),
	})
	if err != nil {
		return "", err
	}
	return stateName(instanceID, out)
}

// stateName reads Reservations[0].Instances[0].State.Name.
func stateName(instanceID string, out *ec2.DescribeInstancesOutput) (string, error) {
	if out == nil || len(out.Reservations) == 0 || out.Reservations[0] == nil ||
		len(out.Reservations[0].Instances) == 0 || out.Reservations[0].Instances[0] == nil {
		return "", fmt.Errorf("%w: %s", ErrNoInstance, instanceID)
	}

	st := out.Reservations[0].Instances[0].State
	if st == nil || st.Name == nil {
		return "", fmt.Errorf("%w: %s", ErrNoState, instanceID)
	}
	return aws.StringValue(st.Name), nil
}
